package analysis

import "github.com/san-kum/procanim/internal/sim"

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Series pulls one coordinate of one particle out of every frame. Frames
// that do not hold the particle are skipped.
func Series(frames []sim.Frame, particle int, axis Axis) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if particle < 0 || particle >= len(f.Positions) {
			continue
		}
		out = append(out, float64(f.Positions[particle][axis]))
	}
	return out
}

// SampleRate derives frames per second from the first and last frame
// times. It returns 0 when fewer than two frames span a positive time.
func SampleRate(frames []sim.Frame) float64 {
	if len(frames) < 2 {
		return 0
	}
	span := float64(frames[len(frames)-1].Time - frames[0].Time)
	if span <= 0 {
		return 0
	}
	return float64(len(frames)-1) / span
}
