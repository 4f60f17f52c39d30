package verlet

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// ParticleID identifies a particle slot. Generation guards against a
// recycled Index being mistaken for the particle that used to live there.
type ParticleID struct {
	Index      uint32
	Generation uint32
}

// Valid reports whether the id was ever handed out. The zero value is not.
func (id ParticleID) Valid() bool { return id.Generation != 0 }

func (id ParticleID) String() string { return fmt.Sprintf("p%d.%d", id.Index, id.Generation) }

// LinkID identifies a link slot.
type LinkID struct {
	Index      uint32
	Generation uint32
}

func (id LinkID) Valid() bool { return id.Generation != 0 }

func (id LinkID) String() string { return fmt.Sprintf("l%d.%d", id.Index, id.Generation) }

type particleSlot struct {
	particle   Particle
	generation uint32
	alive      bool
	touched    bool
}

type linkSlot struct {
	link       Link
	generation uint32
	alive      bool
}

// World owns particles and links in contiguous slot arrays.
type World struct {
	settings Settings
	log      *logrus.Logger

	particles     []particleSlot
	freeParticles []uint32 // stack of recycled slot indices
	links         []linkSlot
	freeLinks     []uint32

	numParticles int
	numLinks     int
	ticks        uint64
}

func NewWorld(settings Settings) *World {
	if settings.Iterations <= 0 {
		settings.Iterations = DefaultIterations
	}
	return &World{
		settings: settings,
		log:      logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger used for tick diagnostics.
func (w *World) SetLogger(log *logrus.Logger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	w.log = log
}

func (w *World) Settings() Settings { return w.settings }

// SetSettings replaces the configuration; it applies from the next Tick.
func (w *World) SetSettings(s Settings) {
	if s.Iterations <= 0 {
		s.Iterations = DefaultIterations
	}
	w.settings = s
}

// Gravity returns the gravity the next Tick will apply.
func (w *World) Gravity() mgl32.Vec3 { return w.settings.Gravity }

// SetGravity changes gravity. A Tick reads it once per particle, so the new
// value is observed from the next Tick on.
func (w *World) SetGravity(g mgl32.Vec3) { w.settings.Gravity = g }

// Ticks returns the number of completed ticks.
func (w *World) Ticks() uint64 { return w.ticks }

// Len returns the number of live particles.
func (w *World) Len() int { return w.numParticles }

// LinkCount returns the number of live links.
func (w *World) LinkCount() int { return w.numLinks }

// AddParticle stores p and returns its identity.
func (w *World) AddParticle(p Particle) ParticleID {
	var idx uint32
	if n := len(w.freeParticles); n > 0 {
		idx = w.freeParticles[n-1]
		w.freeParticles = w.freeParticles[:n-1]
	} else {
		idx = uint32(len(w.particles))
		w.particles = append(w.particles, particleSlot{})
	}

	slot := &w.particles[idx]
	slot.generation++
	slot.particle = p
	slot.alive = true
	slot.touched = false
	w.numParticles++

	return ParticleID{Index: idx, Generation: slot.generation}
}

// RemoveParticle frees the particle's slot. Links that still reference it
// become broken and are handled by Tick.
func (w *World) RemoveParticle(id ParticleID) error {
	slot, err := w.particleSlot(id)
	if err != nil {
		return err
	}
	slot.alive = false
	slot.particle = Particle{}
	w.freeParticles = append(w.freeParticles, id.Index)
	w.numParticles--
	return nil
}

// Contains reports whether id refers to a live particle.
func (w *World) Contains(id ParticleID) bool {
	_, err := w.particleSlot(id)
	return err == nil
}

// Particle returns a copy of the particle record.
func (w *World) Particle(id ParticleID) (Particle, error) {
	slot, err := w.particleSlot(id)
	if err != nil {
		return Particle{}, err
	}
	return slot.particle, nil
}

// Position returns the particle's current position.
func (w *World) Position(id ParticleID) (mgl32.Vec3, error) {
	slot, err := w.particleSlot(id)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return slot.particle.Position, nil
}

// SetPosition moves a particle without changing its previous position, so
// the move also changes its implicit velocity.
func (w *World) SetPosition(id ParticleID, pos mgl32.Vec3) error {
	slot, err := w.particleSlot(id)
	if err != nil {
		return err
	}
	slot.particle.Position = pos
	return nil
}

// Teleport moves a particle and its previous position together, keeping its
// implicit velocity.
func (w *World) Teleport(id ParticleID, pos mgl32.Vec3) error {
	slot, err := w.particleSlot(id)
	if err != nil {
		return err
	}
	v := slot.particle.Position.Sub(slot.particle.Previous)
	slot.particle.Position = pos
	slot.particle.Previous = pos.Sub(v)
	return nil
}

// SetMass changes a particle's mass. Zero pins it.
func (w *World) SetMass(id ParticleID, mass float32) error {
	slot, err := w.particleSlot(id)
	if err != nil {
		return err
	}
	slot.particle.Mass = mass
	return nil
}

// AddLink connects two live particles.
func (w *World) AddLink(a, b ParticleID, kind LinkKind) (LinkID, error) {
	if a == b {
		return LinkID{}, ErrSelfLink
	}
	if !w.Contains(a) {
		return LinkID{}, fmt.Errorf("endpoint a %v: %w", a, ErrStaleID)
	}
	if !w.Contains(b) {
		return LinkID{}, fmt.Errorf("endpoint b %v: %w", b, ErrStaleID)
	}

	var idx uint32
	if n := len(w.freeLinks); n > 0 {
		idx = w.freeLinks[n-1]
		w.freeLinks = w.freeLinks[:n-1]
	} else {
		idx = uint32(len(w.links))
		w.links = append(w.links, linkSlot{})
	}

	slot := &w.links[idx]
	slot.generation++
	slot.link = Link{A: a, B: b, Kind: kind}
	slot.alive = true
	w.numLinks++

	return LinkID{Index: idx, Generation: slot.generation}, nil
}

// RemoveLink frees the link's slot.
func (w *World) RemoveLink(id LinkID) error {
	if int(id.Index) >= len(w.links) {
		return ErrStaleID
	}
	slot := &w.links[id.Index]
	if !slot.alive || slot.generation != id.Generation {
		return ErrStaleID
	}
	slot.alive = false
	w.freeLinks = append(w.freeLinks, id.Index)
	w.numLinks--
	return nil
}

// Link returns the link record.
func (w *World) Link(id LinkID) (Link, error) {
	if int(id.Index) >= len(w.links) {
		return Link{}, ErrStaleID
	}
	slot := &w.links[id.Index]
	if !slot.alive || slot.generation != id.Generation {
		return Link{}, ErrStaleID
	}
	return slot.link, nil
}

// Particles calls fn for each live particle in slot order until fn returns false.
func (w *World) Particles(fn func(ParticleID, Particle) bool) {
	for i := range w.particles {
		slot := &w.particles[i]
		if !slot.alive {
			continue
		}
		if !fn(ParticleID{Index: uint32(i), Generation: slot.generation}, slot.particle) {
			return
		}
	}
}

// Links calls fn for each live link in slot order until fn returns false.
func (w *World) Links(fn func(LinkID, Link) bool) {
	for i := range w.links {
		slot := &w.links[i]
		if !slot.alive {
			continue
		}
		if !fn(LinkID{Index: uint32(i), Generation: slot.generation}, slot.link) {
			return
		}
	}
}

// Clear discards every particle and link. Slot generations survive, so ids
// handed out before Clear stay invalid afterwards.
func (w *World) Clear() {
	w.freeParticles = w.freeParticles[:0]
	for i := len(w.particles) - 1; i >= 0; i-- {
		w.particles[i].alive = false
		w.particles[i].particle = Particle{}
		w.freeParticles = append(w.freeParticles, uint32(i))
	}
	w.freeLinks = w.freeLinks[:0]
	for i := len(w.links) - 1; i >= 0; i-- {
		w.links[i].alive = false
		w.freeLinks = append(w.freeLinks, uint32(i))
	}
	w.numParticles = 0
	w.numLinks = 0
	w.ticks = 0
}

func (w *World) particleSlot(id ParticleID) (*particleSlot, error) {
	if int(id.Index) >= len(w.particles) {
		return nil, ErrStaleID
	}
	slot := &w.particles[id.Index]
	if !slot.alive || slot.generation != id.Generation {
		return nil, ErrStaleID
	}
	return slot, nil
}
