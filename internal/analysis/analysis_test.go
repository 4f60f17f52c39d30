package analysis

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"

	"github.com/san-kum/procanim/internal/sim"
)

func TestAmplitudeSpectrumPeak(t *testing.T) {
	g := NewWithT(t)

	const rate, n = 100.0, 200
	series := make([]float64, n)
	for i := range series {
		series[i] = 3 + math.Sin(2*math.Pi*5*float64(i)/rate)
	}

	spec := AmplitudeSpectrum(series, rate)
	g.Expect(spec.Freqs).To(HaveLen(n/2 + 1))
	g.Expect(spec.Amplitude[0]).To(BeNumerically("~", 0, 1e-9))

	freq, amp := spec.Peak()
	g.Expect(freq).To(BeNumerically("~", 5, 1e-9))
	g.Expect(amp).To(BeNumerically("~", 0.5, 1e-6))
}

func TestAmplitudeSpectrumDegenerate(t *testing.T) {
	g := NewWithT(t)

	g.Expect(AmplitudeSpectrum(nil, 60).Freqs).To(BeEmpty())
	g.Expect(AmplitudeSpectrum([]float64{1, 2, 3}, 0).Freqs).To(BeEmpty())

	freq, amp := AmplitudeSpectrum([]float64{4, 4, 4, 4}, 60).Peak()
	g.Expect(freq).To(BeZero())
	g.Expect(amp).To(BeZero())
}

func TestSeries(t *testing.T) {
	g := NewWithT(t)

	frames := []sim.Frame{
		{Time: 0, Positions: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}},
		{Time: 0.5, Positions: []mgl32.Vec3{{7, 8, 9}}},
		{Time: 1, Positions: []mgl32.Vec3{{10, 11, 12}, {13, 14, 15}}},
	}

	g.Expect(Series(frames, 0, AxisX)).To(Equal([]float64{1, 7, 10}))
	g.Expect(Series(frames, 1, AxisZ)).To(Equal([]float64{6, 15}))
	g.Expect(Series(frames, 5, AxisY)).To(BeEmpty())
	g.Expect(SampleRate(frames)).To(BeNumerically("~", 2, 1e-9))
	g.Expect(SampleRate(frames[:1])).To(BeZero())
}
