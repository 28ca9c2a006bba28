package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// PowerSpectrum returns the magnitude of the first half of the transform of
// data after removing its mean and applying a Hann window.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	x := make([]float64, len(data))
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	spec := fft.FFTReal(x)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of a series
// sampled every dt seconds, or 0 when there is none.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if ps[best] < 1e-12 {
		return 0
	}
	return float64(best) / (float64(len(data)) * dt)
}
