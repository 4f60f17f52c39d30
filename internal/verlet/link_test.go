package verlet

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

var wideBounds = NewBounds(mgl32.Vec3{-1000, -1000, -1000}, mgl32.Vec3{1000, 1000, 1000})

func TestLinkKind_Target(t *testing.T) {
	tests := []struct {
		kind    LinkKind
		current float32
		want    float32
	}{
		{Exact(15), 30, 15},
		{Exact(15), 5, 15},
		{Min(10), 20, 20},
		{Min(10), 4, 10},
		{Max(10), 20, 10},
		{Max(10), 4, 4},
	}

	for _, tt := range tests {
		if got := tt.kind.Target(tt.current); got != tt.want {
			t.Errorf("%v.Target(%v) = %v, want %v", tt.kind, tt.current, got, tt.want)
		}
	}
}

func TestSatisfyLink_ExactConverges(t *testing.T) {
	g := NewWithT(t)

	a := NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	b := NewParticle(mgl32.Vec3{30, 0, 0}, mgl32.Vec3{})

	for range 40 {
		SatisfyLink(&a, &b, Exact(15))
	}

	g.Expect(Separation(a.Position, b.Position)).To(BeNumerically("~", 15, 1e-3))
	// equal masses move symmetrically about the midpoint
	g.Expect(a.Position.Add(b.Position).Mul(0.5)[0]).To(BeNumerically("~", 15, 1e-3))
}

func TestSatisfyLink_SinglePassHalvesError(t *testing.T) {
	g := NewWithT(t)

	a := NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	b := NewParticle(mgl32.Vec3{0, 30, 0}, mgl32.Vec3{})
	SatisfyLink(&a, &b, Exact(15))

	g.Expect(Separation(a.Position, b.Position)).To(BeNumerically("~", 22.5, 1e-4))
}

func TestSatisfyLink_OneSided(t *testing.T) {
	tests := []struct {
		name string
		kind LinkKind
		sep  float32
	}{
		{"min already apart", Min(10), 20},
		{"max already close", Max(30), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewParticle(mgl32.Vec3{1, 2, 0}, mgl32.Vec3{})
			b := NewParticle(mgl32.Vec3{1 + tt.sep, 2, 0}, mgl32.Vec3{})
			beforeA, beforeB := a.Position, b.Position

			SatisfyLink(&a, &b, tt.kind)

			if a.Position != beforeA || b.Position != beforeB {
				t.Errorf("expected no displacement, got a=%v b=%v", a.Position, b.Position)
			}
		})
	}
}

func TestSatisfyLink_OneSidedActsWhenViolated(t *testing.T) {
	g := NewWithT(t)

	a := NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	b := NewParticle(mgl32.Vec3{4, 0, 0}, mgl32.Vec3{})
	for range 40 {
		SatisfyLink(&a, &b, Min(10))
	}
	g.Expect(Separation(a.Position, b.Position)).To(BeNumerically("~", 10, 1e-3))

	c := NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	d := NewParticle(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{})
	for range 40 {
		SatisfyLink(&c, &d, Max(30))
	}
	g.Expect(Separation(c.Position, d.Position)).To(BeNumerically("~", 30, 1e-3))
}

func TestSatisfyLink_MassWeighting(t *testing.T) {
	g := NewWithT(t)

	free := NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	pinned := NewPinnedParticle(mgl32.Vec3{30, 0, 0})

	for range 40 {
		SatisfyLink(&free, &pinned, Exact(15))
	}

	g.Expect(pinned.Position[0]).To(BeNumerically("~", 30, 1e-4))
	g.Expect(free.Position[0]).To(BeNumerically("~", 15, 1e-3))
	g.Expect(finite(free.Position)).To(BeTrue())
}

func TestSatisfyLink_HeavierMovesLess(t *testing.T) {
	g := NewWithT(t)

	light := NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	heavy := NewParticle(mgl32.Vec3{30, 0, 0}, mgl32.Vec3{})
	heavy.Mass = 3

	SatisfyLink(&light, &heavy, Exact(15))

	// inverse masses 1 and 1/3 split the correction 3:1
	g.Expect(light.Position[0]).To(BeNumerically("~", 5.625, 1e-4))
	g.Expect(heavy.Position[0]).To(BeNumerically("~", 28.125, 1e-4))
}

func TestSatisfyLink_BothPinned(t *testing.T) {
	a := NewPinnedParticle(mgl32.Vec3{0, 0, 0})
	b := NewPinnedParticle(mgl32.Vec3{30, 0, 0})

	SatisfyLink(&a, &b, Exact(15))

	if a.Position != (mgl32.Vec3{0, 0, 0}) || b.Position != (mgl32.Vec3{30, 0, 0}) {
		t.Errorf("pinned particles moved: a=%v b=%v", a.Position, b.Position)
	}
}

func TestSatisfyLink_Coincident(t *testing.T) {
	a := NewParticle(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{})
	b := NewParticle(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{})

	SatisfyLink(&a, &b, Exact(15))

	if a.Position != (mgl32.Vec3{5, 5, 5}) || b.Position != (mgl32.Vec3{5, 5, 5}) {
		t.Errorf("coincident particles moved: a=%v b=%v", a.Position, b.Position)
	}
	if !finite(a.Position) || !finite(b.Position) {
		t.Error("coincident correction produced non-finite values")
	}
}

func TestRelaxLink_EarlyExit(t *testing.T) {
	a := NewParticle(mgl32.Vec3{-10, -10, 0}, mgl32.Vec3{})
	b := NewParticle(mgl32.Vec3{-10, -25, 0}, mgl32.Vec3{})
	beforeA, beforeB := a.Position, b.Position

	passes := RelaxLink(&a, &b, Exact(15), DefaultSettings().Bounds, DefaultIterations)

	if passes != 1 {
		t.Errorf("expected exit after 1 pass, ran %d", passes)
	}
	if a.Position != beforeA || b.Position != beforeB {
		t.Errorf("fixed point changed: a=%v b=%v", a.Position, b.Position)
	}
}

func TestRelaxLink_UsesBudget(t *testing.T) {
	a := NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	b := NewParticle(mgl32.Vec3{30, 0, 0}, mgl32.Vec3{})

	passes := RelaxLink(&a, &b, Exact(15), wideBounds, DefaultIterations)

	if passes != DefaultIterations {
		t.Errorf("expected %d passes, ran %d", DefaultIterations, passes)
	}
}

func TestRelaxLink_ClampsEndpoints(t *testing.T) {
	g := NewWithT(t)

	bounds := DefaultSettings().Bounds
	a := NewParticle(mgl32.Vec3{-100, 50, 0}, mgl32.Vec3{})
	b := NewParticle(mgl32.Vec3{-100, -40, 0}, mgl32.Vec3{})

	RelaxLink(&a, &b, Max(100), bounds, DefaultIterations)

	g.Expect(bounds.Contains(a.Position)).To(BeTrue())
	g.Expect(bounds.Contains(b.Position)).To(BeTrue())
}
