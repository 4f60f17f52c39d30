// Package scene authors particle/link topologies into a verlet.World.
package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/procanim/internal/verlet"
)

var (
	// Start is where the demo scene is laid out around.
	Start = mgl32.Vec3{-150, -150, 0}

	// PrevOffset seeds every demo particle with a small downward velocity.
	PrevOffset = mgl32.Vec3{0, verlet.PhysicsScale * -0.25, 0}
)

// Builder lays a topology out in an empty world.
type Builder func(w *verlet.World) error

var builders = map[string]Builder{
	"demo":     Demo,
	"triangle": Triangle,
	"ring":     func(w *verlet.World) error { return Ring(w, 10, 30) },
}

// Names lists the registered scenes.
func Names() []string {
	return []string{"demo", "triangle", "ring"}
}

// Lookup returns the builder registered under name.
func Lookup(name string) (Builder, bool) {
	b, ok := builders[name]
	return b, ok
}

// Reset discards everything in w and builds the named scene. Builders are
// deterministic, so every Reset starts from the same motion state.
func Reset(w *verlet.World, name string) error {
	b, ok := builders[name]
	if !ok {
		return fmt.Errorf("unknown scene: %s (available: %v)", name, Names())
	}
	w.Clear()
	return b(w)
}

func spawn(w *verlet.World, pos, prev mgl32.Vec3) verlet.ParticleID {
	return w.AddParticle(verlet.NewParticle(Start.Add(pos), Start.Add(prev).Add(PrevOffset)))
}

type linkSpec struct {
	a, b verlet.ParticleID
	kind verlet.LinkKind
}

func link(w *verlet.World, specs ...linkSpec) error {
	for _, s := range specs {
		if _, err := w.AddLink(s.a, s.b, s.kind); err != nil {
			return err
		}
	}
	return nil
}

// Demo builds one free particle and two linked triangles joined by a Max
// bridge. The second triangle starts with two coincident particles.
func Demo(w *verlet.World) error {
	spawn(w, mgl32.Vec3{}, mgl32.Vec3{})

	a := spawn(w, mgl32.Vec3{25, 10, 0}, mgl32.Vec3{22, 10, 0})
	b := spawn(w, mgl32.Vec3{47, 12, 0}, mgl32.Vec3{47, 12, 0})
	c := spawn(w, mgl32.Vec3{17, 22, 0}, mgl32.Vec3{17, 22, 0})
	d := spawn(w, mgl32.Vec3{1, 42, 0}, mgl32.Vec3{17, 22, 0})
	e := spawn(w, mgl32.Vec3{-5, 30, 0}, mgl32.Vec3{17, 22, 0})
	f := spawn(w, mgl32.Vec3{-5, 30, 0}, mgl32.Vec3{17, 22, 0})

	return link(w,
		linkSpec{a, b, verlet.Exact(15)},
		linkSpec{a, c, verlet.Exact(25)},
		linkSpec{b, c, verlet.Exact(15)},
		linkSpec{c, d, verlet.Max(30)},
		linkSpec{d, f, verlet.Exact(9.1)},
		linkSpec{d, e, verlet.Exact(11.1)},
		linkSpec{e, f, verlet.Min(10)},
	)
}

// Triangle builds three particles at rest, out of shape, joined by
// Exact(15), Exact(25) and Exact(15).
func Triangle(w *verlet.World) error {
	a := spawnAtRest(w, mgl32.Vec3{0, 0, 0})
	b := spawnAtRest(w, mgl32.Vec3{20, 0, 0})
	c := spawnAtRest(w, mgl32.Vec3{5, 18, 0})

	return link(w,
		linkSpec{a, b, verlet.Exact(15)},
		linkSpec{a, c, verlet.Exact(25)},
		linkSpec{b, c, verlet.Exact(15)},
	)
}

// Ring builds a soft body: n particles on a circle, neighbours held at their
// chord length and opposite particles kept between 0.8 and 1 diameter apart.
func Ring(w *verlet.World, n int, radius float32) error {
	if n < 3 {
		return fmt.Errorf("ring needs at least 3 particles, got %d", n)
	}

	center := mgl32.Vec3{0, 80, 0}
	step := 2 * math32.Pi / float32(n)
	chord := 2 * radius * math32.Sin(step/2)

	ids := make([]verlet.ParticleID, n)
	for i := range ids {
		angle := step * float32(i)
		ids[i] = spawnAtRest(w, center.Add(mgl32.Vec3{radius * math32.Cos(angle), radius * math32.Sin(angle), 0}))
	}

	specs := make([]linkSpec, 0, 2*n)
	for i := range ids {
		specs = append(specs, linkSpec{ids[i], ids[(i+1)%n], verlet.Exact(chord)})
	}
	for i := 0; i < n/2; i++ {
		j := i + n/2
		specs = append(specs,
			linkSpec{ids[i], ids[j], verlet.Max(2 * radius)},
			linkSpec{ids[i], ids[j], verlet.Min(1.6 * radius)},
		)
	}
	return link(w, specs...)
}

func spawnAtRest(w *verlet.World, pos mgl32.Vec3) verlet.ParticleID {
	p := Start.Add(pos)
	return w.AddParticle(verlet.NewParticle(p, p))
}
