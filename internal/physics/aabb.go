package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector2
	Max rl.Vector2
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector2) AABB {
	half := rl.Vector2{X: absf(size.X) / 2, Y: absf(size.Y) / 2}
	return AABB{
		Min: rl.Vector2Subtract(center, half),
		Max: rl.Vector2Add(center, half),
	}
}

func (a AABB) Bounds() AABB { return a }

func (a AABB) Center() rl.Vector2 {
	return rl.Vector2Scale(rl.Vector2Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector2 {
	return rl.Vector2Subtract(a.Max, a.Min)
}

func (a AABB) Contains(p rl.Vector2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: rl.Vector2{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y)},
		Max: rl.Vector2{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y)},
	}
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) rl.Vector2 {
	if !a.Intersects(b) {
		return rl.Vector2Zero()
	}

	dx1 := b.Max.X - a.Min.X // push a in +X
	dx2 := a.Max.X - b.Min.X // push a in -X
	dy1 := b.Max.Y - a.Min.Y // push a in +Y
	dy2 := a.Max.Y - b.Min.Y // push a in -Y

	least := dx1
	result := rl.Vector2{X: dx1}

	if dx2 < least {
		least = dx2
		result = rl.Vector2{X: -dx2}
	}
	if dy1 < least {
		least = dy1
		result = rl.Vector2{Y: dy1}
	}
	if dy2 < least {
		result = rl.Vector2{Y: -dy2}
	}

	return result
}
