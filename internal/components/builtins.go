package components

import "scene2d/internal/engine"

// RegisterBuiltins registers every component of this package.
func RegisterBuiltins(reg *engine.ComponentRegistry) {
	engine.RegisterType[RigidBody](reg, "RigidBody")
	engine.RegisterType[BoxCollider](reg, "BoxCollider")
	engine.RegisterType[CircleCollider](reg, "CircleCollider")
	engine.RegisterType[Tweener](reg, "Tweener")
	engine.RegisterType[Orbiter](reg, "Orbiter")
}
