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
