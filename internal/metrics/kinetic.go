package metrics

import (
	"github.com/san-kum/procanim/internal/verlet"
)

// Kinetic estimates kinetic energy from the implicit Verlet velocities.
// Pinned particles are left out.
type Kinetic struct {
	name  string
	value float64
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(s verlet.Snapshot, dt float32) {
	k.value = 0
	if dt == 0 {
		return
	}
	for i := range s.Positions {
		m := s.Masses[i]
		if verlet.IsPinnedMass(m) {
			continue
		}
		v := s.Positions[i].Sub(s.Previous[i]).Mul(1 / dt)
		k.value += 0.5 * float64(m) * float64(v.Dot(v))
	}
}

func (k *Kinetic) Value() float64 { return k.value }

func (k *Kinetic) Reset() { k.value = 0 }
