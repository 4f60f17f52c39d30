package verlet

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LinkMode selects how a link resolves its target separation.
type LinkMode uint8

const (
	// ModeExact always pushes or pulls toward Distance.
	ModeExact LinkMode = iota
	// ModeMin only pushes apart when closer than Distance.
	ModeMin
	// ModeMax only pulls together when further than Distance.
	ModeMax
)

func (m LinkMode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeMin:
		return "min"
	case ModeMax:
		return "max"
	}
	return fmt.Sprintf("LinkMode(%d)", uint8(m))
}

// LinkKind is a link's separation policy.
type LinkKind struct {
	Mode     LinkMode
	Distance float32
}

func Exact(d float32) LinkKind { return LinkKind{Mode: ModeExact, Distance: d} }
func Min(d float32) LinkKind   { return LinkKind{Mode: ModeMin, Distance: d} }
func Max(d float32) LinkKind   { return LinkKind{Mode: ModeMax, Distance: d} }

// Target resolves the separation the link asks for given the current one.
// Min and Max return current when already satisfied, so they never act.
func (k LinkKind) Target(current float32) float32 {
	switch k.Mode {
	case ModeMin:
		return math32.Max(current, k.Distance)
	case ModeMax:
		return math32.Min(current, k.Distance)
	default:
		return k.Distance
	}
}

// Satisfied reports whether current is within tol of what the link wants.
func (k LinkKind) Satisfied(current, tol float32) bool {
	return math32.Abs(current-k.Target(current)) <= tol
}

func (k LinkKind) String() string {
	return fmt.Sprintf("%s(%g)", k.Mode, k.Distance)
}

// Link is a distance constraint between two particles of a World.
type Link struct {
	A, B ParticleID
	Kind LinkKind
}

// SatisfyLink applies one linearised correction moving a and b toward the
// link's target separation, split by inverse mass. Coincident particles have
// no direction to correct along and are left alone, as is a pair of pinned
// particles.
func SatisfyLink(a, b *Particle, kind LinkKind) {
	delta := b.Position.Sub(a.Position)
	length := math32.Sqrt(delta.Dot(delta))
	if length == 0 {
		return
	}
	if a.Pinned() && b.Pinned() {
		return
	}

	target := kind.Target(length)
	invA := InverseMass(a.Mass)
	invB := InverseMass(b.Mass)

	k := 0.5 * (length - target) / (length * (invA + invB))

	a.Position = a.Position.Add(delta.Mul(invA * k))
	b.Position = b.Position.Sub(delta.Mul(invB * k))
}

// RelaxLink alternates the containment clamp on both endpoints with
// SatisfyLink for at most iterations passes. It stops as soon as a pass
// leaves both positions bitwise unchanged and returns the passes run.
func RelaxLink(a, b *Particle, kind LinkKind, bounds Bounds, iterations int) int {
	for i := 1; i <= iterations; i++ {
		beforeA := a.Position
		beforeB := b.Position

		a.Position = bounds.Clamp(a.Position)
		b.Position = bounds.Clamp(b.Position)

		SatisfyLink(a, b, kind)

		// exact comparison: a fixed point stops touching memory
		if a.Position == beforeA && b.Position == beforeB {
			return i
		}
	}
	return iterations
}

// Separation returns the distance between two positions.
func Separation(a, b mgl32.Vec3) float32 {
	d := b.Sub(a)
	return math32.Sqrt(d.Dot(d))
}
