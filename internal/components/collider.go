package components

import (
	"scene2d/internal/engine"
	"scene2d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Collider holds the material fields shared by every collider shape.
type Collider struct {
	engine.BaseComponent
	Offset     rl.Vector2
	Density    float32
	Friction   float32
	Elasticity float32
	Sensor     bool
}

// ShapeProvider is implemented by colliders.
type ShapeProvider interface {
	engine.Component
	Shape() physics.Shape
	IsSensor() bool
}

type colliderBase interface {
	collider() *Collider
}

func (c *Collider) collider() *Collider { return c }

// IsSensor reports whether the collider only reports contacts.
func (c *Collider) IsSensor() bool { return c.Sensor }

var ColliderSchema = engine.NewSchema("Collider", engine.ComponentSchema).With(
	engine.Prop("offset", rl.Vector2{}, func(c colliderBase) *rl.Vector2 { return &c.collider().Offset }),
	engine.Prop("density", float32(1), func(c colliderBase) *float32 { return &c.collider().Density }),
	engine.Prop("friction", float32(0.5), func(c colliderBase) *float32 { return &c.collider().Friction }),
	engine.Prop("elasticity", float32(0), func(c colliderBase) *float32 { return &c.collider().Elasticity }),
	engine.Prop("sensor", false, func(c colliderBase) *bool { return &c.collider().Sensor }),
)

// center returns the world-space center of the collider, offset included.
func (c *Collider) center() rl.Vector2 {
	e := c.Entity()
	if e == nil {
		return c.Offset
	}
	return e.Transform().LocalToWorld(c.Offset)
}

func (c *Collider) worldScale() rl.Vector2 {
	if e := c.Entity(); e != nil {
		return e.Transform().WorldScale()
	}
	return rl.Vector2{X: 1, Y: 1}
}

func (c *Collider) worldAngle() float32 {
	if e := c.Entity(); e != nil {
		return e.Transform().WorldAngle()
	}
	return 0
}
