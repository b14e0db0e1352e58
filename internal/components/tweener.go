package components

import (
	"scene2d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tweened transform properties.
const (
	TweenPosition = "position"
	TweenAngle    = "angle"
	TweenScale    = "scale"
)

var easings = map[string]ease.TweenFunc{
	"Linear":     ease.Linear,
	"InQuad":     ease.InQuad,
	"OutQuad":    ease.OutQuad,
	"InOutQuad":  ease.InOutQuad,
	"InCubic":    ease.InCubic,
	"OutCubic":   ease.OutCubic,
	"InOutCubic": ease.InOutCubic,
	"InOutSine":  ease.InOutSine,
	"OutBounce":  ease.OutBounce,
	"OutElastic": ease.OutElastic,
}

// Easing returns the easing function registered under name, falling back
// to linear.
func Easing(name string) ease.TweenFunc {
	if fn, ok := easings[name]; ok {
		return fn
	}
	return ease.Linear
}

// Tweener animates one transform property from its value at Start to To.
// For the angle property only To.X is used. A looping tweener plays back and
// forth.
type Tweener struct {
	engine.BaseComponent
	Property string
	To       rl.Vector2
	Duration float32
	Easing   string
	Loop     bool

	tweens [2]*gween.Tween
	from   [2]float32
	to     [2]float32
	count  int
	done   bool
}

var TweenerSchema = engine.NewSchema("Tweener", engine.ComponentSchema).With(
	engine.Prop("property", TweenPosition, func(t *Tweener) *string { return &t.Property }),
	engine.Prop("to", rl.Vector2{}, func(t *Tweener) *rl.Vector2 { return &t.To }),
	engine.Prop("duration", float32(1), func(t *Tweener) *float32 { return &t.Duration }),
	engine.Prop("easing", "Linear", func(t *Tweener) *string { return &t.Easing }),
	engine.Prop("loop", false, func(t *Tweener) *bool { return &t.Loop }),
)

func (t *Tweener) Schema() *engine.Schema { return TweenerSchema }

// Done reports whether a non-looping tween reached its target.
func (t *Tweener) Done() bool {
	return t.done
}

func (t *Tweener) Start() {
	e := t.Entity()
	if e == nil {
		return
	}
	tr := e.Transform()
	t.done = false

	switch t.Property {
	case TweenAngle:
		t.count = 1
		t.from = [2]float32{tr.Angle()}
		t.to = [2]float32{t.To.X}
	case TweenScale:
		t.count = 2
		t.from = [2]float32{tr.Scale().X, tr.Scale().Y}
		t.to = [2]float32{t.To.X, t.To.Y}
	default:
		t.count = 2
		t.from = [2]float32{tr.Position().X, tr.Position().Y}
		t.to = [2]float32{t.To.X, t.To.Y}
	}
	t.rewind()
}

func (t *Tweener) rewind() {
	fn := Easing(t.Easing)
	for i := 0; i < t.count; i++ {
		t.tweens[i] = gween.New(t.from[i], t.to[i], t.Duration, fn)
	}
}

func (t *Tweener) Update(dt float32) {
	e := t.Entity()
	if e == nil || t.done || t.count == 0 {
		return
	}

	var vals [2]float32
	allDone := true
	for i := 0; i < t.count; i++ {
		v, finished := t.tweens[i].Update(dt)
		vals[i] = v
		if !finished {
			allDone = false
		}
	}

	tr := e.Transform()
	switch t.Property {
	case TweenAngle:
		tr.SetAngle(vals[0])
	case TweenScale:
		tr.SetScale(rl.Vector2{X: vals[0], Y: vals[1]})
	default:
		tr.SetPosition(rl.Vector2{X: vals[0], Y: vals[1]})
	}

	if !allDone {
		return
	}
	if !t.Loop {
		t.done = true
		return
	}
	t.from, t.to = t.to, t.from
	t.rewind()
}
