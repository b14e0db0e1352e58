package components

import (
	"scene2d/internal/engine"
	"scene2d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type BoxCollider struct {
	Collider
	Width  float32
	Height float32
}

var BoxColliderSchema = engine.NewSchema("BoxCollider", ColliderSchema).With(
	engine.Prop("width", float32(1), func(b *BoxCollider) *float32 { return &b.Width }),
	engine.Prop("height", float32(1), func(b *BoxCollider) *float32 { return &b.Height }),
)

func NewBoxCollider(width, height float32) *BoxCollider {
	b := &BoxCollider{}
	engine.MustConstruct(b, map[string]any{"width": width, "height": height})
	return b
}

func (b *BoxCollider) Schema() *engine.Schema { return BoxColliderSchema }

// Shape returns the box in world space, scaled by the entity's world scale.
// An unrotated box is returned as an AABB.
func (b *BoxCollider) Shape() physics.Shape {
	scale := b.worldScale()
	size := rl.Vector2{X: b.Width * scale.X, Y: b.Height * scale.Y}
	if angle := b.worldAngle(); angle != 0 {
		return physics.NewOBB(b.center(), size, angle)
	}
	return physics.NewAABBFromCenter(b.center(), size)
}
