package verlet

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MassEpsilon is the magnitude below which a mass counts as pinned.
	MassEpsilon float32 = 1e-4

	// PinnedMass is the finite stand-in mass for pinned particles. Using a
	// large finite value keeps inverse masses and their sums finite.
	PinnedMass float32 = 1e8
)

// Particle is a point mass. Velocity is implicit: Position - Previous.
type Particle struct {
	Position     mgl32.Vec3
	Previous     mgl32.Vec3
	Acceleration mgl32.Vec3
	Mass         float32
}

// NewParticle returns a unit-mass particle. Offsetting prev from pos seeds
// an initial velocity of (pos-prev)/dt.
func NewParticle(pos, prev mgl32.Vec3) Particle {
	return Particle{
		Position: pos,
		Previous: prev,
		Mass:     1,
	}
}

// NewPinnedParticle returns a zero-mass particle that links never displace.
func NewPinnedParticle(pos mgl32.Vec3) Particle {
	return Particle{Position: pos, Previous: pos}
}

// Pinned reports whether the particle's mass is within MassEpsilon of zero.
func (p *Particle) Pinned() bool {
	return IsPinnedMass(p.Mass)
}

// AccumulateForces sets the acceleration for the next Verlet step. It
// overwrites rather than sums: callers with several force sources add them
// up first.
func (p *Particle) AccumulateForces(force mgl32.Vec3) {
	p.Acceleration = force
}

// Verlet advances the particle one step of dt seconds. With dt == 0 the
// acceleration term vanishes but the particle still coasts by x - prev.
func (p *Particle) Verlet(dt float32) {
	next := p.Position.Mul(2).Sub(p.Previous).Add(p.Acceleration.Mul(dt * dt))
	p.Previous = p.Position
	p.Position = next
}

// Velocity estimates the velocity carried into the next step. It is zero for
// dt == 0 even though Verlet(0) still moves the particle by x - prev.
func (p *Particle) Velocity(dt float32) mgl32.Vec3 {
	if dt == 0 {
		return mgl32.Vec3{}
	}
	return p.Position.Sub(p.Previous).Mul(1 / dt)
}

// Impulse changes the implicit velocity by dv over the next step of dt.
func (p *Particle) Impulse(dv mgl32.Vec3, dt float32) {
	p.Previous = p.Previous.Sub(dv.Mul(dt))
}

// IsPinnedMass reports whether mass is treated as immovable.
func IsPinnedMass(mass float32) bool {
	return math32.Abs(mass) < MassEpsilon
}

// InverseMass returns 1/mass, substituting PinnedMass for near-zero masses.
func InverseMass(mass float32) float32 {
	if IsPinnedMass(mass) {
		return 1 / PinnedMass
	}
	return 1 / mass
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
