package combine

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func flat(wave []float64, flux, unc float64) Spectrum {
	f := make([]float64, len(wave))
	u := make([]float64, len(wave))

	for i := range wave {
		f[i] = flux
		u[i] = unc
	}

	return Spectrum{Wave: wave, Flux: f, Unc: u}
}

func checkAscending(t *testing.T, s Spectrum) {
	t.Helper()

	for i := 1; i < s.Len(); i++ {
		if s.Wave[i] <= s.Wave[i-1] {
			t.Fatalf("wave[%d]=%v <= wave[%d]=%v", i, s.Wave[i], i-1, s.Wave[i-1])
		}
	}
}

func TestCombineDisjointConcatenates(t *testing.T) {
	s1 := flat([]float64{3, 4, 5}, 1, 0.1)
	s2 := flat([]float64{1, 2}, 2, 0.1)

	out, err := Combine(s1, s2)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	if out.Len() != 5 {
		t.Fatalf("len = %d, want 5", out.Len())
	}

	checkAscending(t, out)

	if out.Flux[0] != 2 || out.Flux[4] != 1 {
		t.Fatalf("flux = %v, wrong side order", out.Flux)
	}
}

func TestCombineOverlapEqualWeights(t *testing.T) {
	s1 := flat([]float64{2, 3, 4, 5}, 4, 0.5)
	s2 := flat([]float64{1, 2.5, 3.5, 4.5}, 2, 0.5)

	out, err := Combine(s1, s2)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	checkAscending(t, out)

	// within the overlap [2, 4.5] the output follows s1's grid and
	// averages the two flat spectra with equal weights
	for i := 0; i < out.Len(); i++ {
		w := out.Wave[i]
		if w < 2 || w > 4.5 {
			continue
		}

		if !almostEqual(out.Flux[i], 3, tolerance) {
			t.Fatalf("flux at %v = %v, want 3", w, out.Flux[i])
		}

		want := math.Sqrt(1 / (1/0.25 + 1/0.25))
		if !almostEqual(out.Unc[i], want, tolerance) {
			t.Fatalf("unc at %v = %v, want %v", w, out.Unc[i], want)
		}
	}

	// s2's leading sample survives untouched below the overlap
	if out.Wave[0] != 1 || out.Flux[0] != 2 {
		t.Fatalf("blue edge = (%v, %v), want (1, 2)", out.Wave[0], out.Flux[0])
	}

	// s1's trailing sample survives above the overlap
	last := out.Len() - 1
	if out.Wave[last] != 5 || out.Flux[last] != 4 {
		t.Fatalf("red edge = (%v, %v), want (5, 4)", out.Wave[last], out.Flux[last])
	}
}

func TestCombineInverseVarianceWeighting(t *testing.T) {
	s1 := flat([]float64{1, 2, 3}, 10, 1)
	s2 := flat([]float64{1, 2, 3}, 20, 2)

	out, err := Combine(s1, s2)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	// weights 1 and 1/4: (10 + 20/4) / (1 + 1/4) = 12
	for i := range out.Flux {
		if !almostEqual(out.Flux[i], 12, tolerance) {
			t.Fatalf("flux[%d] = %v, want 12", i, out.Flux[i])
		}
	}
}

func TestCombineZeroUncFallsBackToMean(t *testing.T) {
	s1 := flat([]float64{1, 2, 3}, 10, 1)
	s2 := flat([]float64{1, 2, 3}, 20, 0)

	out, err := Combine(s1, s2)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	for i := range out.Flux {
		if !almostEqual(out.Flux[i], 15, tolerance) {
			t.Fatalf("flux[%d] = %v, want 15", i, out.Flux[i])
		}
	}
}

func TestCombineGridIndependentOfFlux(t *testing.T) {
	wave1 := []float64{2, 3, 4, 5}
	wave2 := []float64{1, 2.5, 3.5, 4.5}

	a, err := Combine(flat(wave1, 1, 0.1), flat(wave2, 2, 0.1))
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	b, err := Combine(flat(wave1, 99, 7), flat(wave2, -5, 0.3))
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	if a.Len() != b.Len() {
		t.Fatalf("grid lengths differ: %d vs %d", a.Len(), b.Len())
	}

	for i := range a.Wave {
		if a.Wave[i] != b.Wave[i] {
			t.Fatalf("grid differs at %d: %v vs %v", i, a.Wave[i], b.Wave[i])
		}
	}
}

func TestCombineValidation(t *testing.T) {
	good := flat([]float64{1, 2}, 1, 0.1)

	if _, err := Combine(Spectrum{}, good); !errors.Is(err, ErrEmptySpectrum) {
		t.Fatalf("err = %v, want ErrEmptySpectrum", err)
	}

	bad := Spectrum{Wave: []float64{1, 2}, Flux: []float64{1}, Unc: []float64{1, 1}}
	if _, err := Combine(good, bad); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}

	unsorted := flat([]float64{2, 1}, 1, 0.1)
	if _, err := Combine(good, unsorted); !errors.Is(err, ErrNotAscending) {
		t.Fatalf("err = %v, want ErrNotAscending", err)
	}
}

func TestInterpAtLinear(t *testing.T) {
	s := Spectrum{
		Wave: []float64{1, 2, 3},
		Flux: []float64{10, 20, 40},
		Unc:  []float64{1, 2, 4},
	}

	f, u := interpAt(s, 2.5)
	if !almostEqual(f, 30, tolerance) || !almostEqual(u, 3, tolerance) {
		t.Fatalf("interp = (%v, %v), want (30, 3)", f, u)
	}

	f, _ = interpAt(s, 2)
	if f != 20 {
		t.Fatalf("exact hit = %v, want 20", f)
	}
}
