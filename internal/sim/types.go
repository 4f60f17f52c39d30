package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/procanim/internal/verlet"
)

// Metric accumulates a scalar over the snapshots of a run.
type Metric interface {
	Name() string
	Observe(s verlet.Snapshot, dt float32)
	Value() float64
	Reset()
}

// Observer sees every completed tick. It must not mutate the world.
type Observer interface {
	OnTick(s verlet.Snapshot, report verlet.TickReport, t float32)
}

type Config struct {
	Dt         float32
	Ticks      int
	FrameEvery int
}

// Frame is a recorded set of positions.
type Frame struct {
	Tick      uint64
	Time      float32
	Positions []mgl32.Vec3
}

type Result struct {
	Frames      []Frame
	Reports     []verlet.TickReport
	Metrics     map[string]float64
	Series      map[string][]float64
	Fingerprint uint64
	TicksTaken  int
	Errors      []error
}

type SimError struct {
	Time    float32
	Tick    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %s", e.Tick, e.Time, e.Message)
}
