package metrics

import (
	"github.com/san-kum/procanim/internal/verlet"
)

// LinkResidual tracks the worst link violation of the latest snapshot.
// Satisfied Min and Max links contribute zero.
type LinkResidual struct {
	name  string
	value float64
	peak  float64
}

func NewLinkResidual() *LinkResidual {
	return &LinkResidual{name: "link_residual"}
}

func (r *LinkResidual) Name() string { return r.name }

func (r *LinkResidual) Observe(s verlet.Snapshot, dt float32) {
	r.value = 0
	for _, seg := range s.Segments {
		current := verlet.Separation(seg.A, seg.B)
		diff := float64(current - seg.Kind.Target(current))
		if diff < 0 {
			diff = -diff
		}
		if diff > r.value {
			r.value = diff
		}
	}
	if r.value > r.peak {
		r.peak = r.value
	}
}

func (r *LinkResidual) Value() float64 { return r.value }

// Peak returns the largest residual seen since Reset.
func (r *LinkResidual) Peak() float64 { return r.peak }

func (r *LinkResidual) Reset() {
	r.value = 0
	r.peak = 0
}
