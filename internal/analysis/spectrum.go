package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is the one-sided amplitude spectrum of an evenly sampled series.
// Amplitude[k] is the amplitude of a sinusoid at Freqs[k], so a unit sine
// shows up as 0.5 in its bin.
type Spectrum struct {
	Freqs     []float64
	Amplitude []float64
}

// AmplitudeSpectrum removes the mean of series and transforms it. Any length is
// accepted.
func AmplitudeSpectrum(series []float64, sampleRate float64) Spectrum {
	n := len(series)
	if n < 2 || sampleRate <= 0 {
		return Spectrum{}
	}

	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	bins := n/2 + 1
	s := Spectrum{
		Freqs:     make([]float64, bins),
		Amplitude: make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		s.Freqs[k] = float64(k) * sampleRate / float64(n)
		s.Amplitude[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return s
}

// Peak returns the strongest non-DC bin. An empty or flat spectrum gives
// zeros.
func (s Spectrum) Peak() (freq, amplitude float64) {
	for k := 1; k < len(s.Amplitude); k++ {
		if s.Amplitude[k] > amplitude {
			freq, amplitude = s.Freqs[k], s.Amplitude[k]
		}
	}
	return freq, amplitude
}
