package scripts

import (
	"scene2d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Follower moves its entity toward Target plus Offset, at most Speed units
// per second. It does nothing while the reference is unset or dangling.
type Follower struct {
	engine.BaseComponent
	Target       engine.EntityRef
	Offset       rl.Vector2
	Speed        float32 `default:"2"`
	StopDistance float32 `default:"0.05"`
}

func (f *Follower) LateUpdate(deltaTime float32) {
	e := f.Entity()
	if e == nil {
		return
	}
	target := f.Target.Get(e.Scene())
	if target == nil || target == e {
		return
	}

	goal := rl.Vector2Add(target.Transform().WorldPosition(), f.Offset)
	pos := e.Transform().WorldPosition()
	delta := rl.Vector2Subtract(goal, pos)
	dist := rl.Vector2Length(delta)
	if dist <= f.StopDistance {
		return
	}

	step := f.Speed * deltaTime
	if step >= dist {
		e.Transform().SetWorldPosition(goal)
		return
	}
	e.Transform().SetWorldPosition(rl.Vector2Add(pos, rl.Vector2Scale(delta, step/dist)))
}

// --- Generated boilerplate below ---

var FollowerSchema = engine.NewSchema("Follower", engine.ComponentSchema).With(
	engine.Prop("target", engine.EntityRef{}, func(f *Follower) *engine.EntityRef { return &f.Target }),
	engine.Prop("offset", rl.Vector2{}, func(f *Follower) *rl.Vector2 { return &f.Offset }),
	engine.Prop("speed", float32(2), func(f *Follower) *float32 { return &f.Speed }),
	engine.Prop("stop_distance", float32(0.05), func(f *Follower) *float32 { return &f.StopDistance }),
)

func (f *Follower) Schema() *engine.Schema { return FollowerSchema }
