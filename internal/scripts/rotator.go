package scripts

import "scene2d/internal/engine"

// Rotator spins its entity at a constant rate.
type Rotator struct {
	engine.BaseComponent
	Speed float32 `default:"90"` // degrees per second
}

func (r *Rotator) Update(deltaTime float32) {
	if e := r.Entity(); e != nil {
		e.Transform().Rotate(r.Speed * deltaTime)
	}
}

// --- Generated boilerplate below ---

var RotatorSchema = engine.NewSchema("Rotator", engine.ComponentSchema).With(
	engine.Prop("speed", float32(90), func(r *Rotator) *float32 { return &r.Speed }),
)

func (r *Rotator) Schema() *engine.Schema { return RotatorSchema }
