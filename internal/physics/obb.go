package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an oriented box in the plane.
type OBB struct {
	Center   rl.Vector2    // World-space center
	HalfSize rl.Vector2    // Half-extents along local axes
	Axes     [2]rl.Vector2 // Local X and Y axes (rotated)
}

// NewOBB creates an OBB from center, size and a rotation in degrees.
func NewOBB(center, size rl.Vector2, angle float32) OBB {
	rad := float64(angle) * math.Pi / 180
	c, s := float32(math.Cos(rad)), float32(math.Sin(rad))
	return OBB{
		Center:   center,
		HalfSize: rl.Vector2{X: absf(size.X) / 2, Y: absf(size.Y) / 2},
		Axes: [2]rl.Vector2{
			{X: c, Y: s},
			{X: -s, Y: c},
		},
	}
}

// Bounds returns the axis-aligned box enclosing o.
func (o OBB) Bounds() AABB {
	ex := o.HalfSize.X*absf(o.Axes[0].X) + o.HalfSize.Y*absf(o.Axes[1].X)
	ey := o.HalfSize.X*absf(o.Axes[0].Y) + o.HalfSize.Y*absf(o.Axes[1].Y)
	half := rl.Vector2{X: ex, Y: ey}
	return AABB{Min: rl.Vector2Subtract(o.Center, half), Max: rl.Vector2Add(o.Center, half)}
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem.
// In 2D the four face normals are the only candidate axes.
func (a OBB) IntersectsOBB(b OBB) bool {
	t := rl.Vector2Subtract(b.Center, a.Center)
	for _, axis := range [...]rl.Vector2{a.Axes[0], a.Axes[1], b.Axes[0], b.Axes[1]} {
		if !overlapOnAxis(a, b, axis, t) {
			return false
		}
	}
	return true
}

func overlapOnAxis(a, b OBB, axis, t rl.Vector2) bool {
	aProjection := a.HalfSize.X*absf(rl.Vector2DotProduct(a.Axes[0], axis)) +
		a.HalfSize.Y*absf(rl.Vector2DotProduct(a.Axes[1], axis))
	bProjection := b.HalfSize.X*absf(rl.Vector2DotProduct(b.Axes[0], axis)) +
		b.HalfSize.Y*absf(rl.Vector2DotProduct(b.Axes[1], axis))
	distance := absf(rl.Vector2DotProduct(t, axis))
	return distance <= aProjection+bProjection
}

// IntersectsCircle tests if the box touches a circle.
func (o OBB) IntersectsCircle(c Circle) bool {
	closest := o.ClosestPoint(c.Center)
	return rl.Vector2DistanceSqr(closest, c.Center) <= c.Radius*c.Radius
}

// ClosestPoint returns the point of o nearest to p.
func (o OBB) ClosestPoint(p rl.Vector2) rl.Vector2 {
	local := rl.Vector2Subtract(p, o.Center)
	lx := clampf(rl.Vector2DotProduct(local, o.Axes[0]), -o.HalfSize.X, o.HalfSize.X)
	ly := clampf(rl.Vector2DotProduct(local, o.Axes[1]), -o.HalfSize.Y, o.HalfSize.Y)

	result := o.Center
	result = rl.Vector2Add(result, rl.Vector2Scale(o.Axes[0], lx))
	result = rl.Vector2Add(result, rl.Vector2Scale(o.Axes[1], ly))
	return result
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
