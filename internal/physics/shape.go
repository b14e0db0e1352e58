package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Shape is a collision volume in world space.
type Shape interface {
	Bounds() AABB
}

// Circle is a disc in world space.
type Circle struct {
	Center rl.Vector2
	Radius float32
}

func (c Circle) Bounds() AABB {
	r := rl.Vector2{X: absf(c.Radius), Y: absf(c.Radius)}
	return AABB{Min: rl.Vector2Subtract(c.Center, r), Max: rl.Vector2Add(c.Center, r)}
}

func (c Circle) IntersectsCircle(o Circle) bool {
	r := c.Radius + o.Radius
	return rl.Vector2DistanceSqr(c.Center, o.Center) <= r*r
}

// Overlaps reports whether two shapes touch. Unknown shape types fall back
// to their bounds.
func Overlaps(a, b Shape) bool {
	if !a.Bounds().Intersects(b.Bounds()) {
		return false
	}
	switch sa := a.(type) {
	case Circle:
		switch sb := b.(type) {
		case Circle:
			return sa.IntersectsCircle(sb)
		case OBB:
			return sb.IntersectsCircle(sa)
		case AABB:
			return asOBB(sb).IntersectsCircle(sa)
		}
	case OBB:
		switch sb := b.(type) {
		case Circle:
			return sa.IntersectsCircle(sb)
		case OBB:
			return sa.IntersectsOBB(sb)
		case AABB:
			return sa.IntersectsOBB(asOBB(sb))
		}
	case AABB:
		switch sb := b.(type) {
		case Circle:
			return asOBB(sa).IntersectsCircle(sb)
		case OBB:
			return asOBB(sa).IntersectsOBB(sb)
		}
	}
	return true
}

func asOBB(a AABB) OBB {
	return NewOBB(a.Center(), a.Size(), 0)
}
