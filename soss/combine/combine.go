package combine

import (
	"errors"
	"math"
	"sort"
)

// Errors returned by Combine.
var (
	ErrEmptySpectrum  = errors.New("combine: spectrum is empty")
	ErrLengthMismatch = errors.New("combine: wavelength, flux, and uncertainty lengths differ")
	ErrNotAscending   = errors.New("combine: wavelength array must be strictly ascending")
)

// Spectrum is a 1D spectrum: parallel wavelength, flux, and uncertainty
// arrays of equal length, wavelength ascending.
type Spectrum struct {
	Wave []float64
	Flux []float64
	Unc  []float64
}

// Len returns the number of spectral samples.
func (s Spectrum) Len() int {
	return len(s.Wave)
}

func (s Spectrum) validate() error {
	if s.Len() == 0 {
		return ErrEmptySpectrum
	}

	if len(s.Flux) != s.Len() || len(s.Unc) != s.Len() {
		return ErrLengthMismatch
	}

	for i := 1; i < s.Len(); i++ {
		if s.Wave[i] <= s.Wave[i-1] {
			return ErrNotAscending
		}
	}

	return nil
}

// Combine merges two spectra with (possibly) overlapping wavelength
// coverage into one ascending spectrum. Outside the overlap the native
// samples are kept. Inside the overlap the output follows s1's
// wavelength grid; s2 is linearly interpolated onto it and the fluxes
// are averaged with inverse-variance weights.
//
// The output wavelength grid depends only on the input grids, never on
// flux or uncertainty values, so repeated calls over a shared grid pair
// produce identical grids.
func Combine(s1, s2 Spectrum) (Spectrum, error) {
	if err := s1.validate(); err != nil {
		return Spectrum{}, err
	}

	if err := s2.validate(); err != nil {
		return Spectrum{}, err
	}

	lo := math.Max(s1.Wave[0], s2.Wave[0])
	hi := math.Min(s1.Wave[s1.Len()-1], s2.Wave[s2.Len()-1])

	// Disjoint coverage: plain concatenation in wavelength order.
	if lo > hi {
		if s1.Wave[0] > s2.Wave[0] {
			s1, s2 = s2, s1
		}

		return Spectrum{
			Wave: concat(s1.Wave, s2.Wave),
			Flux: concat(s1.Flux, s2.Flux),
			Unc:  concat(s1.Unc, s2.Unc),
		}, nil
	}

	out := Spectrum{}

	// Blue side: native samples below the overlap, from both inputs.
	appendBelow(&out, s1, lo)
	appendBelow(&out, s2, lo)
	sortTriple(&out)

	// Overlap: s1's grid, inverse-variance weighted mean.
	for i := 0; i < s1.Len(); i++ {
		w := s1.Wave[i]
		if w < lo || w > hi {
			continue
		}

		f2, u2 := interpAt(s2, w)
		f, u := weightedMean(s1.Flux[i], s1.Unc[i], f2, u2)

		out.Wave = append(out.Wave, w)
		out.Flux = append(out.Flux, f)
		out.Unc = append(out.Unc, u)
	}

	// Red side: native samples above the overlap, from both inputs.
	n := out.Len()
	appendAbove(&out, s1, hi)
	appendAbove(&out, s2, hi)
	sortTripleFrom(&out, n)

	return out, nil
}

func concat(a, b []float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)

	return out
}

func appendBelow(dst *Spectrum, s Spectrum, lo float64) {
	for i := 0; i < s.Len() && s.Wave[i] < lo; i++ {
		dst.Wave = append(dst.Wave, s.Wave[i])
		dst.Flux = append(dst.Flux, s.Flux[i])
		dst.Unc = append(dst.Unc, s.Unc[i])
	}
}

func appendAbove(dst *Spectrum, s Spectrum, hi float64) {
	for i := 0; i < s.Len(); i++ {
		if s.Wave[i] <= hi {
			continue
		}

		dst.Wave = append(dst.Wave, s.Wave[i])
		dst.Flux = append(dst.Flux, s.Flux[i])
		dst.Unc = append(dst.Unc, s.Unc[i])
	}
}

func sortTriple(s *Spectrum) {
	sortTripleFrom(s, 0)
}

// sortTripleFrom sorts the tail of the triple starting at index from by
// ascending wavelength, keeping the three arrays aligned.
func sortTripleFrom(s *Spectrum, from int) {
	tail := tripleView{
		wave: s.Wave[from:],
		flux: s.Flux[from:],
		unc:  s.Unc[from:],
	}
	sort.Sort(tail)
}

type tripleView struct {
	wave []float64
	flux []float64
	unc  []float64
}

func (t tripleView) Len() int           { return len(t.wave) }
func (t tripleView) Less(i, j int) bool { return t.wave[i] < t.wave[j] }

func (t tripleView) Swap(i, j int) {
	t.wave[i], t.wave[j] = t.wave[j], t.wave[i]
	t.flux[i], t.flux[j] = t.flux[j], t.flux[i]
	t.unc[i], t.unc[j] = t.unc[j], t.unc[i]
}

// interpAt linearly interpolates s's flux and uncertainty at wavelength w,
// which must lie within s's coverage.
func interpAt(s Spectrum, w float64) (flux, unc float64) {
	j := sort.SearchFloat64s(s.Wave, w)
	if j < s.Len() && s.Wave[j] == w {
		return s.Flux[j], s.Unc[j]
	}

	if j == 0 {
		return s.Flux[0], s.Unc[0]
	}

	if j >= s.Len() {
		return s.Flux[s.Len()-1], s.Unc[s.Len()-1]
	}

	t := (w - s.Wave[j-1]) / (s.Wave[j] - s.Wave[j-1])
	flux = s.Flux[j-1] + t*(s.Flux[j]-s.Flux[j-1])
	unc = s.Unc[j-1] + t*(s.Unc[j]-s.Unc[j-1])

	return flux, unc
}

// weightedMean combines two measurements with inverse-variance weights.
// Non-positive or non-finite uncertainties fall back to equal weighting.
func weightedMean(f1, u1, f2, u2 float64) (flux, unc float64) {
	w1 := invVar(u1)
	w2 := invVar(u2)

	if w1 <= 0 || w2 <= 0 {
		return (f1 + f2) / 2, math.Max(u1, u2)
	}

	flux = (w1*f1 + w2*f2) / (w1 + w2)
	unc = math.Sqrt(1 / (w1 + w2))

	return flux, unc
}

func invVar(u float64) float64 {
	if u <= 0 || math.IsNaN(u) || math.IsInf(u, 0) {
		return 0
	}

	return 1 / (u * u)
}
