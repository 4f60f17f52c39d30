package verlet

import "github.com/go-gl/mathgl/mgl32"

const (
	// DefaultIterations is the per-link relaxation budget.
	DefaultIterations = 5

	// PhysicsScale converts metres into scene units.
	PhysicsScale float32 = 15
)

var (
	DefaultGravity   = mgl32.Vec3{0, PhysicsScale * -9.81, 0}
	DefaultBoundsMin = mgl32.Vec3{-300, -300, 0}
	DefaultBoundsMax = mgl32.Vec3{0, 0, 0}
)

// Settings is the per-world configuration read by every Tick.
type Settings struct {
	Gravity    mgl32.Vec3
	Bounds     Bounds
	Iterations int
	// StrictLinks makes Tick fail on a link with a missing endpoint instead
	// of skipping it.
	StrictLinks bool
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:    DefaultGravity,
		Bounds:     NewBounds(DefaultBoundsMin, DefaultBoundsMax),
		Iterations: DefaultIterations,
	}
}
