// Package analysis extracts per-particle series from recorded frames and
// finds their dominant oscillation frequencies.
//
//	heights := analysis.Series(frames, 3, analysis.AxisY)
//	spec := analysis.AmplitudeSpectrum(heights, analysis.SampleRate(frames))
//	freq, amp := spec.Peak()
package analysis
