package engine

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
)

// Transform is the spatial component every entity owns exactly once. It holds
// the local position, angle (degrees) and scale, and links to its parent and
// children by entity id. The world matrix is computed on read.
type Transform struct {
	BaseComponent
	position rl.Vector2
	angle    float32
	scale    rl.Vector2

	parent   EntityID
	children []EntityID

	world         rl.Matrix
	dirty         bool
	version       uint64
	parentVersion uint64
}

var TransformSchema = NewSchema("Transform", ComponentSchema).With(
	Prop("removable", false, func(c componentBase) *bool { return &c.Base().removable }, Hidden()),
	Prop("position", rl.Vector2{}, func(t *Transform) *rl.Vector2 { return &t.position },
		WithSetter(func(obj any, v any) error {
			obj.(*Transform).SetPosition(v.(rl.Vector2))
			return nil
		})),
	Prop("angle", float32(0), func(t *Transform) *float32 { return &t.angle },
		WithSetter(func(obj any, v any) error {
			obj.(*Transform).SetAngle(v.(float32))
			return nil
		})),
	Prop("scale", rl.Vector2{X: 1, Y: 1}, func(t *Transform) *rl.Vector2 { return &t.scale },
		WithSetter(func(obj any, v any) error {
			obj.(*Transform).SetScale(v.(rl.Vector2))
			return nil
		})),
)

// NewTransform returns a detached transform at the origin.
func NewTransform() *Transform {
	t := &Transform{}
	MustConstruct(t, nil)
	return t
}

func (t *Transform) Schema() *Schema { return TransformSchema }

func (t *Transform) AfterLoad() {
	t.angle = normalizeAngle(t.angle)
	t.dirty = true
}

func (t *Transform) Position() rl.Vector2 { return t.position }

func (t *Transform) Angle() float32 { return t.angle }

func (t *Transform) Scale() rl.Vector2 { return t.scale }

func (t *Transform) SetPosition(v rl.Vector2) {
	t.position = v
	t.touch()
}

// SetAngle sets the local angle in degrees, normalized into [0, 360).
func (t *Transform) SetAngle(deg float32) {
	t.angle = normalizeAngle(deg)
	t.touch()
}

// SetScale sets the local scale. Zero and negative factors are accepted.
func (t *Transform) SetScale(v rl.Vector2) {
	t.scale = v
	t.touch()
}

func (t *Transform) Translate(dx, dy float32) {
	t.SetPosition(rl.Vector2{X: t.position.X + dx, Y: t.position.Y + dy})
}

func (t *Transform) Rotate(deg float32) {
	t.SetAngle(t.angle + deg)
}

func (t *Transform) ScaleBy(sx, sy float32) {
	t.SetScale(rl.Vector2{X: t.scale.X * sx, Y: t.scale.Y * sy})
}

func (t *Transform) touch() {
	t.dirty = true
	t.Changed().Notify()
}

func (t *Transform) copyLocal(src *Transform) {
	t.position = src.position
	t.angle = normalizeAngle(src.angle)
	t.scale = src.scale
	t.touch()
}

// LocalMatrix returns T(position) · R(angle) · S(scale).
func (t *Transform) LocalMatrix() rl.Matrix {
	s := rl.MatrixScale(t.scale.X, t.scale.Y, 1)
	r := rl.MatrixRotateZ(float32(float64(t.angle) * math.Pi / 180))
	tr := rl.MatrixTranslate(t.position.X, t.position.Y, 0)
	// raylib multiplies left to right: MatrixMultiply(a, b) applies a first.
	return rl.MatrixMultiply(rl.MatrixMultiply(s, r), tr)
}

// WorldMatrix returns parent.WorldMatrix() · LocalMatrix(). The cached value
// is rebuilt when a local field changed or the parent rebuilt its own.
func (t *Transform) WorldMatrix() rl.Matrix {
	p := t.Parent()
	if p == nil {
		if t.dirty || t.parentVersion != 0 {
			t.world = t.LocalMatrix()
			t.parentVersion = 0
			t.commit()
		}
		return t.world
	}
	pw := p.WorldMatrix()
	if t.dirty || t.parentVersion != p.version {
		t.world = rl.MatrixMultiply(t.LocalMatrix(), pw)
		t.parentVersion = p.version
		t.commit()
	}
	return t.world
}

func (t *Transform) commit() {
	t.dirty = false
	t.version++
}

func (t *Transform) WorldPosition() rl.Vector2 {
	m := t.WorldMatrix()
	return rl.Vector2{X: m.M12, Y: m.M13}
}

func (t *Transform) WorldAngle() float32 {
	_, a, _ := decompose(t.WorldMatrix())
	return a
}

func (t *Transform) WorldScale() rl.Vector2 {
	_, _, s := decompose(t.WorldMatrix())
	return s
}

// SetWorldPosition moves the transform so its world position becomes v.
func (t *Transform) SetWorldPosition(v rl.Vector2) {
	if p := t.Parent(); p != nil {
		v = transformPoint(invertAffine(p.WorldMatrix()), v)
	}
	t.SetPosition(v)
}

// LocalToWorld maps a point from this transform's space to world space.
func (t *Transform) LocalToWorld(p rl.Vector2) rl.Vector2 {
	return transformPoint(t.WorldMatrix(), p)
}

// WorldToLocal maps a world point into this transform's space.
func (t *Transform) WorldToLocal(p rl.Vector2) rl.Vector2 {
	return transformPoint(invertAffine(t.WorldMatrix()), p)
}

// Parent returns the parent transform, or nil for a root.
func (t *Transform) Parent() *Transform {
	if t.parent == uuid.Nil || t.entity == nil || t.entity.arena == nil {
		return nil
	}
	pe := t.entity.arena.get(t.parent)
	if pe == nil {
		return nil
	}
	return pe.transform
}

// Children returns the child transforms in order.
func (t *Transform) Children() []*Transform {
	if t.entity == nil || t.entity.arena == nil {
		return nil
	}
	out := make([]*Transform, 0, len(t.children))
	for _, id := range t.children {
		if c := t.entity.arena.get(id); c != nil {
			out = append(out, c.transform)
		}
	}
	return out
}

// ChildCount returns the number of children.
func (t *Transform) ChildCount() int {
	return len(t.children)
}

// SetParent moves the transform under p, or to the root of its scene when p
// is nil. With keepWorld the local fields are recomputed so the world matrix
// is unchanged. Self-parenting and cycles fail with ErrInvalidParent and
// leave the hierarchy untouched.
//
// Local fields hold no shear. When p's world scale is non-uniform and t is
// rotated relative to p, the required local matrix is sheared and keepWorld
// only preserves the world position; angle and scale are approximated.
func (t *Transform) SetParent(p *Transform, keepWorld bool) error {
	e := t.entity
	if e == nil {
		return fmt.Errorf("%w: transform is not attached to an entity", ErrInvalidParent)
	}
	if e.destroyed {
		return ErrDestroyed
	}
	var pe *Entity
	if p != nil {
		pe = p.entity
		if pe == nil {
			return fmt.Errorf("%w: parent transform is not attached to an entity", ErrInvalidParent)
		}
		if pe.destroyed {
			return ErrDestroyed
		}
		for a := p; a != nil; a = a.Parent() {
			if a == t {
				return fmt.Errorf("%w: %q cannot be parented under %q", ErrInvalidParent, e.Name, pe.Name)
			}
		}
		if pe.arena == e.arena && t.parent == pe.id {
			return nil
		}
	} else if t.parent == uuid.Nil {
		return nil
	}

	var oldWorld rl.Matrix
	if keepWorld {
		oldWorld = t.WorldMatrix()
	}
	e.withActivity(func() {
		t.detach()
		if pe == nil {
			e.arena.addRoot(e.id)
			return
		}
		pe.arena.adopt(e)
		t.parent = pe.id
		p.children = append(p.children, e.id)
	})
	if keepWorld {
		t.setWorldMatrix(oldWorld)
	}
	t.dirty = true
	t.Changed().Notify()
	if s := e.Scene(); s != nil {
		s.Changed().Notify()
	}
	return nil
}

func (t *Transform) detach() {
	e := t.entity
	if t.parent == uuid.Nil {
		e.arena.removeRoot(e.id)
		return
	}
	if pe := e.arena.get(t.parent); pe != nil {
		pe.transform.removeChild(e.id)
	}
	t.parent = uuid.Nil
}

func (t *Transform) removeChild(id EntityID) {
	for i, c := range t.children {
		if c == id {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

func (t *Transform) setWorldMatrix(world rl.Matrix) {
	local := world
	if p := t.Parent(); p != nil {
		local = rl.MatrixMultiply(world, invertAffine(p.WorldMatrix()))
	}
	t.position, t.angle, t.scale = decompose(local)
}

// invertAffine inverts m, or returns the identity when m is singular.
func invertAffine(m rl.Matrix) rl.Matrix {
	det := float64(m.M0)*float64(m.M5) - float64(m.M4)*float64(m.M1)
	if math.Abs(det) < 1e-9 {
		return rl.MatrixIdentity()
	}
	return rl.MatrixInvert(m)
}

func decompose(m rl.Matrix) (rl.Vector2, float32, rl.Vector2) {
	pos := rl.Vector2{X: m.M12, Y: m.M13}
	a, b := float64(m.M0), float64(m.M1)
	c, d := float64(m.M4), float64(m.M5)
	sx := math.Hypot(a, b)
	if sx < 1e-9 {
		return pos, 0, rl.Vector2{X: 0, Y: float32(math.Hypot(c, d))}
	}
	angle := math.Atan2(b, a) * 180 / math.Pi
	sy := (a*d - c*b) / sx
	return pos, normalizeAngle(float32(angle)), rl.Vector2{X: float32(sx), Y: float32(sy)}
}

func transformPoint(m rl.Matrix, p rl.Vector2) rl.Vector2 {
	return rl.Vector2{
		X: m.M0*p.X + m.M4*p.Y + m.M12,
		Y: m.M1*p.X + m.M5*p.Y + m.M13,
	}
}

func normalizeAngle(deg float32) float32 {
	a := math.Mod(float64(deg), 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return float32(a)
}
