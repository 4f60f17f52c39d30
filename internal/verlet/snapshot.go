package verlet

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// Segment is a link's endpoints as positions.
type Segment struct {
	A, B mgl32.Vec3
	Kind LinkKind
}

// Snapshot is a read-only copy of a World between ticks.
type Snapshot struct {
	Tick      uint64
	IDs       []ParticleID
	Positions []mgl32.Vec3
	Previous  []mgl32.Vec3
	Masses    []float32
	Segments  []Segment
}

// Snapshot copies positions and link endpoints in slot order. Links with a
// missing endpoint are left out.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tick:      w.ticks,
		IDs:       make([]ParticleID, 0, w.numParticles),
		Positions: make([]mgl32.Vec3, 0, w.numParticles),
		Previous:  make([]mgl32.Vec3, 0, w.numParticles),
		Masses:    make([]float32, 0, w.numParticles),
		Segments:  make([]Segment, 0, w.numLinks),
	}

	w.Particles(func(id ParticleID, p Particle) bool {
		s.IDs = append(s.IDs, id)
		s.Positions = append(s.Positions, p.Position)
		s.Previous = append(s.Previous, p.Previous)
		s.Masses = append(s.Masses, p.Mass)
		return true
	})

	w.Links(func(_ LinkID, l Link) bool {
		a, errA := w.particleSlot(l.A)
		b, errB := w.particleSlot(l.B)
		if errA != nil || errB != nil {
			return true
		}
		s.Segments = append(s.Segments, Segment{A: a.particle.Position, B: b.particle.Position, Kind: l.Kind})
		return true
	})

	return s
}

// Finite reports whether every position is free of NaN and Inf.
func (s Snapshot) Finite() bool {
	for i := range s.Positions {
		if !finite(s.Positions[i]) || !finite(s.Previous[i]) {
			return false
		}
	}
	return true
}

// Fingerprint hashes the exact bits of every position and previous
// position. Equal fingerprints mean bitwise-identical motion state.
func (s Snapshot) Fingerprint() uint64 {
	buf := make([]byte, 0, len(s.Positions)*24)
	for i := range s.Positions {
		for _, v := range [2]mgl32.Vec3{s.Positions[i], s.Previous[i]} {
			for _, c := range v {
				buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c))
			}
		}
	}
	return xxh3.Hash(buf)
}
