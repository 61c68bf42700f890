package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// PowerSpectrum holds the one-sided magnitude spectrum of a series.
type PowerSpectrum struct {
	Freqs  []float64
	Powers []float64
}

// Spectrum removes the mean of data, applies a Hann window and returns the
// magnitudes of the non-negative frequency bins. dt is the sample spacing.
func Spectrum(data []float64, dt float64) PowerSpectrum {
	n := len(data)
	if n < 2 || dt <= 0 {
		return PowerSpectrum{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	bins := fft.FFTReal(x)
	half := n/2 + 1
	ps := PowerSpectrum{
		Freqs:  make([]float64, half),
		Powers: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		ps.Freqs[k] = float64(k) / (float64(n) * dt)
		ps.Powers[k] = cmplx.Abs(bins[k])
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest bin above DC,
// or 0 when the spectrum is flat.
func (ps PowerSpectrum) DominantFrequency() float64 {
	best, at := 0.0, 0
	for k := 1; k < len(ps.Powers); k++ {
		if ps.Powers[k] > best {
			best, at = ps.Powers[k], k
		}
	}
	if at == 0 {
		return 0
	}
	return ps.Freqs[at]
}

// SettleTime returns the earliest time after which every sample stays
// within tol of the last sample. It returns -1 for an empty series.
func SettleTime(data []float64, dt, tol float64) float64 {
	if len(data) == 0 {
		return -1
	}
	final := data[len(data)-1]
	i := len(data) - 1
	for i > 0 && math.Abs(data[i-1]-final) <= tol {
		i--
	}
	return float64(i) * dt
}
