// Package verlet implements position-based particle animation with iterative
// distance constraints, after Jakobsen's "Advanced Character Physics".
//
// The package is organised around three pieces:
//
//   - [Particle]: a point mass whose velocity is implicit in the difference
//     between its current and previous positions
//   - [Link]: a distance constraint between two particles, referenced by
//     [ParticleID] so several links can share a particle
//   - [World]: an arena owning particles and links that advances them with [World.Tick]
//
// A tick integrates every particle, relaxes every link for at most
// [Settings.Iterations] passes, then clamps every particle into
// [Settings.Bounds], so no position leaves a tick outside the box.
//
// # Example
//
//	w := verlet.NewWorld(verlet.DefaultSettings())
//	a := w.AddParticle(verlet.NewParticle(mgl32.Vec3{-10, -10, 0}, mgl32.Vec3{-10, -10, 0}))
//	b := w.AddParticle(verlet.NewParticle(mgl32.Vec3{-40, -10, 0}, mgl32.Vec3{-40, -10, 0}))
//	w.AddLink(a, b, verlet.Exact(15))
//	report, err := w.Tick(1.0 / 60)
//
// # Stability
//
// Integration is explicit and only conditionally stable. Large dt values
// (frame hitches) can inject energy; there is no sub-stepping.
//
// # Thread Safety
//
// A World is NOT thread-safe. Hosts must not read or mutate it while a Tick is
// running, and snapshots taken between ticks are the only valid external view.
package verlet
