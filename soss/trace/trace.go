package trace

import (
	"errors"
	"strings"
)

// Errors returned by trace lookups.
var (
	ErrUnknownSubarray = errors.New("trace: unknown subarray")
	ErrUnknownOrder    = errors.New("trace: order must be 1 or 2")
)

// OrderCount is the number of diffraction orders the GR700XD grism
// disperses onto the detector.
const OrderCount = 2

// defaultHalfWidth is the extraction half-width in rows around the trace
// center; a bin spans 2*defaultHalfWidth+1 rows before edge clipping.
const defaultHalfWidth = 12

// Subarray describes a detector readout region.
type Subarray struct {
	Name string
	Rows int
	Cols int

	// rowOffset shifts the trace-center model, which is defined in
	// SUBSTRIP256 coordinates, into this subarray's row frame.
	rowOffset int
}

var subarrays = []Subarray{
	{Name: "FULL", Rows: 2048, Cols: 2048, rowOffset: 1792},
	{Name: "SUBSTRIP256", Rows: 256, Cols: 2048, rowOffset: 0},
	{Name: "SUBSTRIP96", Rows: 96, Cols: 2048, rowOffset: -75},
}

// Subarrays returns all known subarray configurations.
func Subarrays() []Subarray {
	out := make([]Subarray, len(subarrays))
	copy(out, subarrays)

	return out
}

// LookupSubarray resolves a subarray by name (case-insensitive).
func LookupSubarray(name string) (Subarray, error) {
	for _, s := range subarrays {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}

	return Subarray{}, ErrUnknownSubarray
}

// Wavelength solution coefficients per order, polynomial in detector
// column. Both orders run red to blue with increasing column, so the
// per-column wavelength arrays are strictly decreasing.
var waveCoeffs = [OrderCount][3]float64{
	{2.833, -9.2e-4, -2.2e-8}, // order 1: ~2.83 down to ~0.86 um
	{1.431, -4.0e-4, -4.0e-9}, // order 2: ~1.43 down to ~0.59 um
}

// Trace-center coefficients per order, polynomial in detector column,
// in SUBSTRIP256 row coordinates.
var centerCoeffs = [OrderCount][4]float64{
	{85, 1.8e-2, -3.8e-6, 6.0e-10},
	{140, 5.5e-2, -9.0e-6, 0},
}

func polyEval(coeffs []float64, x float64) float64 {
	v := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*x + coeffs[i]
	}

	return v
}

// Wavelengths returns the wavelength solution for one order: the central
// wavelength in microns of each detector column, length sub.Cols. The
// array follows detector column order and is strictly decreasing; callers
// that need an ascending spectrum must sort.
func Wavelengths(order int, sub Subarray) ([]float64, error) {
	if order < 1 || order > OrderCount {
		return nil, ErrUnknownOrder
	}

	c := waveCoeffs[order-1]

	out := make([]float64, sub.Cols)
	for x := range out {
		out[x] = polyEval(c[:], float64(x))
	}

	return out, nil
}

// Centers returns the trace-center row position per detector column for
// one order, in the subarray's row frame. Values may fall outside
// [0, sub.Rows) where the trace leaves the readout region.
func Centers(order int, sub Subarray) ([]float64, error) {
	if order < 1 || order > OrderCount {
		return nil, ErrUnknownOrder
	}

	c := centerCoeffs[order-1]

	out := make([]float64, sub.Cols)
	for x := range out {
		out[x] = polyEval(c[:], float64(x)) + float64(sub.rowOffset)
	}

	return out, nil
}

// Bin identifies the detector pixels contributing to one wavelength bin
// as parallel row/column index slices. A bin fully clipped off the
// subarray has empty slices.
type Bin struct {
	Rows []int
	Cols []int
}

// Pixels returns the number of pixels in the bin.
func (b Bin) Pixels() int {
	return len(b.Rows)
}

// WavelengthBins returns the wavelength-bin pixel groupings for every
// order: one bin per detector column, covering the rows within the
// extraction half-width of the trace center, clipped to the subarray.
// The result is indexed [order-1][column].
func WavelengthBins(sub Subarray) ([][]Bin, error) {
	out := make([][]Bin, OrderCount)

	for n := 1; n <= OrderCount; n++ {
		centers, err := Centers(n, sub)
		if err != nil {
			return nil, err
		}

		bins := make([]Bin, sub.Cols)
		for x := range bins {
			bins[x] = columnBin(centers[x], x, sub.Rows)
		}

		out[n-1] = bins
	}

	return out, nil
}

// columnBin builds the pixel set of a single column's bin, clipping the
// row span to [0, rows).
func columnBin(center float64, col, rows int) Bin {
	lo := int(center) - defaultHalfWidth
	hi := int(center) + defaultHalfWidth

	if lo < 0 {
		lo = 0
	}

	if hi >= rows {
		hi = rows - 1
	}

	if hi < lo {
		return Bin{}
	}

	n := hi - lo + 1
	b := Bin{
		Rows: make([]int, n),
		Cols: make([]int, n),
	}

	for i := 0; i < n; i++ {
		b.Rows[i] = lo + i
		b.Cols[i] = col
	}

	return b
}
