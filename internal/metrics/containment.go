package metrics

import (
	"github.com/san-kum/procanim/internal/verlet"
)

// Containment is the fraction of observed ticks where every particle was
// inside the bounds, within a tolerance.
type Containment struct {
	name       string
	bounds     verlet.Bounds
	violations int
	samples    int
}

func NewContainment(bounds verlet.Bounds, tolerance float32) *Containment {
	for i := range 3 {
		bounds.Min[i] -= tolerance
		bounds.Max[i] += tolerance
	}
	return &Containment{
		name:   "containment",
		bounds: bounds,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(s verlet.Snapshot, dt float32) {
	c.samples++
	for _, p := range s.Positions {
		if !c.bounds.Contains(p) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
