package components

import (
	"scene2d/internal/engine"
	"scene2d/internal/physics"
)

type CircleCollider struct {
	Collider
	Radius float32
}

var CircleColliderSchema = engine.NewSchema("CircleCollider", ColliderSchema).With(
	engine.Prop("radius", float32(1), func(c *CircleCollider) *float32 { return &c.Radius }),
)

func NewCircleCollider(radius float32) *CircleCollider {
	c := &CircleCollider{}
	engine.MustConstruct(c, map[string]any{"radius": radius})
	return c
}

func (c *CircleCollider) Schema() *engine.Schema { return CircleColliderSchema }

// Shape returns the circle in world space. The radius follows the larger
// world scale axis.
func (c *CircleCollider) Shape() physics.Shape {
	scale := c.worldScale()
	return physics.Circle{
		Center: c.center(),
		Radius: c.Radius * max(absf(scale.X), absf(scale.Y)),
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
