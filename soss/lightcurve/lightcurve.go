// Package lightcurve derives band-integrated time series from binned
// SOSS extraction products and provides a simple FFT power spectrum for
// variability screening of time-series exposures.
package lightcurve

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-soss/soss/cube"
)

// Errors returned by light-curve routines.
var (
	ErrEmptySeries    = errors.New("lightcurve: series is empty")
	ErrInvalidCadence = errors.New("lightcurve: cadence must be positive")
)

// WhiteLight sums a frames x bins counts matrix over all bins, producing
// the band-integrated count per frame. NaN bins contribute zero.
func WhiteLight(counts [][]float64) []float64 {
	out := make([]float64, len(counts))
	for f, row := range counts {
		out[f] = cube.NaNSafeSum(row)
	}

	return out
}

// Normalize returns the series divided by its mean, the usual relative
// form for transit light curves. A zero-mean series is returned
// unchanged.
func Normalize(series []float64) []float64 {
	mean := cube.NaNSafeSum(series) / float64(len(series))

	out := make([]float64, len(series))
	if mean == 0 {
		copy(out, series)
		return out
	}

	for i, v := range series {
		out[i] = v / mean
	}

	return out
}

// Periodogram holds a one-sided power spectrum: Freq in Hz per bin and
// the squared spectral magnitude.
type Periodogram struct {
	Freq  []float64
	Power []float64
}

// PeakFrequency returns the frequency of the strongest non-DC bin.
func (p Periodogram) PeakFrequency() float64 {
	best := 0.0
	bestPower := -1.0

	for i := 1; i < len(p.Power); i++ {
		if p.Power[i] > bestPower {
			bestPower = p.Power[i]
			best = p.Freq[i]
		}
	}

	return best
}

// PowerSpectrum computes the one-sided power spectrum of a uniformly
// sampled series with the given cadence in seconds per frame. The mean
// is removed and a Hann window applied before the FFT; the series is
// zero-padded to the next power of two.
func PowerSpectrum(series []float64, cadence float64) (Periodogram, error) {
	if len(series) == 0 {
		return Periodogram{}, ErrEmptySeries
	}

	if cadence <= 0 {
		return Periodogram{}, ErrInvalidCadence
	}

	n := len(series)
	fftSize := nextPowerOf2(n)

	mean := cube.NaNSafeSum(series) / float64(n)

	inData := make([]complex128, fftSize)
	for i, v := range series {
		if math.IsNaN(v) {
			v = mean
		}

		w := hann(i, n)
		inData[i] = complex((v-mean)*w, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Periodogram{}, fmt.Errorf("lightcurve: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return Periodogram{}, fmt.Errorf("lightcurve: forward FFT failed: %w", err)
	}

	binCount := fftSize/2 + 1

	re := make([]float64, binCount)
	im := make([]float64, binCount)

	for i := 0; i < binCount; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, binCount)
	vecmath.Power(power, re, im)

	freq := make([]float64, binCount)
	for i := range freq {
		freq[i] = float64(i) / (float64(fftSize) * cadence)
	}

	return Periodogram{Freq: freq, Power: power}, nil
}

func hann(i, n int) float64 {
	if n <= 1 {
		return 1
	}

	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
