package components

import (
	"math"

	"scene2d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orbiter moves its entity on a circle around the position it had at Start
// and spins it.
type Orbiter struct {
	engine.BaseComponent
	Radius        float32
	Speed         float32 // radians per second
	RotationSpeed float32 // degrees per second
	Phase         float32

	center rl.Vector2
	time   float32
}

var OrbiterSchema = engine.NewSchema("Orbiter", engine.ComponentSchema).With(
	engine.Prop("radius", float32(1), func(o *Orbiter) *float32 { return &o.Radius }),
	engine.Prop("speed", float32(1), func(o *Orbiter) *float32 { return &o.Speed }),
	engine.Prop("rotation_speed", float32(0), func(o *Orbiter) *float32 { return &o.RotationSpeed }),
	engine.Prop("phase", float32(0), func(o *Orbiter) *float32 { return &o.Phase }),
)

func (o *Orbiter) Schema() *engine.Schema { return OrbiterSchema }

func (o *Orbiter) Start() {
	if e := o.Entity(); e != nil {
		o.center = e.Transform().Position()
	}
	o.time = 0
}

func (o *Orbiter) Update(deltaTime float32) {
	e := o.Entity()
	if e == nil {
		return
	}
	o.time += deltaTime

	t := float64(o.time*o.Speed + o.Phase)
	offset := rl.Vector2{
		X: float32(math.Cos(t)) * o.Radius,
		Y: float32(math.Sin(t)) * o.Radius,
	}
	e.Transform().SetPosition(rl.Vector2Add(o.center, offset))
	if o.RotationSpeed != 0 {
		e.Transform().Rotate(o.RotationSpeed * deltaTime)
	}
}
