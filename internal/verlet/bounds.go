package verlet

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis-aligned containment box.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// NewBounds builds a box from any two opposite corners.
func NewBounds(c1, c2 mgl32.Vec3) Bounds {
	var b Bounds
	for i := range 3 {
		b.Min[i] = math32.Min(c1[i], c2[i])
		b.Max[i] = math32.Max(c1[i], c2[i])
	}
	return b
}

// Clamp moves p component-wise into the box. Applying it twice is the same
// as applying it once.
func (b Bounds) Clamp(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(p[0], b.Min[0], b.Max[0]),
		mgl32.Clamp(p[1], b.Min[1], b.Max[1]),
		mgl32.Clamp(p[2], b.Min[2], b.Max[2]),
	}
}

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p mgl32.Vec3) bool {
	for i := range 3 {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Size returns the box extent along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}
