package binning

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-soss/soss/calib"
	"github.com/cwbudde/algo-soss/soss/combine"
	"github.com/cwbudde/algo-soss/soss/cube"
	"github.com/cwbudde/algo-soss/soss/trace"
)

// Errors returned by Extract.
var (
	ErrEmptyCube     = errors.New("binning: cube has no frames")
	ErrUnknownFilter = errors.New("binning: filter must be CLEAR or F277W")
	ErrMaskCount     = errors.New("binning: number of pixel masks does not match number of orders")
	ErrGridMismatch  = errors.New("binning: combined wavelength grid differs between frames")
)

// Record holds the extraction result of one spectral order, or of the
// combined spectrum. Counts, Flux, and Unc have shape frames x bins;
// Wavelength is ascending with one entry per bin column.
type Record struct {
	Counts     [][]float64
	Flux       [][]float64
	Unc        [][]float64
	Wavelength []float64
	Filter     string
	Subarray   string
}

// Results maps "order1", "order2", and "final" to their records.
type Results map[string]*Record

// BinCounts sums the (optionally masked) counts of every wavelength bin
// for every frame. If mask is non-nil and matches the cube's spatial
// shape, each frame is multiplied elementwise by it first; a mask with a
// mismatched shape is skipped silently. NaN pixels contribute zero.
//
// The returned matrix has shape frames x len(bins). The input cube is
// never mutated.
func BinCounts(c *cube.Cube, bins []trace.Bin, mask *cube.Mask) [][]float64 {
	masked := cube.ApplyMask(c, mask)

	counts := make([][]float64, masked.Frames)

	for f := range counts {
		frame := masked.Frame(f)
		row := make([]float64, len(bins))

		for i, b := range bins {
			sum := 0.0

			for p := range b.Rows {
				v := frame[b.Rows[p]*masked.Cols+b.Cols[p]]
				if math.IsNaN(v) {
					continue
				}

				sum += v
			}

			row[i] = sum
		}

		counts[f] = row
	}

	return counts
}

// Extract performs the full 1D extraction of a time-series cube: per
// order, it bins the counts along the trace, converts them to calibrated
// flux, estimates uncertainties, and sorts everything by ascending
// wavelength; it then combines the two order spectra of every frame into
// one composite spectrum.
//
// The result maps "order1" and "order2" to the per-order records and
// "final" to the combined record. The final wavelength grid is required
// to be identical across frames; a combiner producing differing grids is
// reported as ErrGridMismatch.
func Extract(c *cube.Cube, filt string, opts ...Option) (Results, error) {
	if c == nil || c.Frames == 0 {
		return nil, ErrEmptyCube
	}

	if filt != "CLEAR" && filt != "F277W" {
		return nil, fmt.Errorf("%w: got %q", ErrUnknownFilter, filt)
	}

	cfg := ApplyOptions(opts...)

	sub, err := trace.LookupSubarray(cfg.Subarray)
	if err != nil {
		return nil, err
	}

	wavebins, err := trace.WavelengthBins(sub)
	if err != nil {
		return nil, err
	}

	if cfg.PixelMasks != nil && len(cfg.PixelMasks) != len(wavebins) {
		return nil, fmt.Errorf("%w: %d masks for %d orders", ErrMaskCount, len(cfg.PixelMasks), len(wavebins))
	}

	results := make(Results, len(wavebins)+1)

	var lastCounts [][]float64

	for n := 1; n <= len(wavebins); n++ {
		rec, err := extractOrder(c, filt, n, sub, wavebins[n-1], cfg)
		if err != nil {
			return nil, err
		}

		results[fmt.Sprintf("order%d", n)] = rec
		lastCounts = rec.Counts
	}

	final, err := combineOrders(results["order1"], results["order2"], cfg)
	if err != nil {
		return nil, err
	}

	// The combined record keeps the per-order binned counts of the last
	// extracted order; counts do not merge across orders.
	final.Counts = lastCounts
	results["final"] = final

	return results, nil
}

// extractOrder runs steps 1-5 of the extraction for a single order.
func extractOrder(c *cube.Cube, filt string, order int, sub trace.Subarray, bins []trace.Bin, cfg Config) (*Record, error) {
	wavelength, err := trace.Wavelengths(order, sub)
	if err != nil {
		return nil, err
	}

	var mask *cube.Mask
	if cfg.PixelMasks != nil {
		mask = cfg.PixelMasks[order-1]
	}

	counts := BinCounts(c, bins, mask)

	flux, err := calib.Convert(wavelength, counts, calib.Config{
		Filter:   filt,
		Subarray: sub.Name,
		Order:    order,
		Units:    cfg.Units,
		ExpTime:  cfg.ExpTime,
		Gain:     cfg.Gain,
		Area:     cfg.Area,
	})
	if err != nil {
		return nil, err
	}

	unc := make([][]float64, len(flux))
	for f, row := range flux {
		unc[f] = cfg.Uncertainty(row, cfg.Rand)
	}

	rec := &Record{
		Counts:     counts,
		Flux:       flux,
		Unc:        unc,
		Wavelength: wavelength,
		Filter:     filt,
		Subarray:   sub.Name,
	}
	sortByWavelength(rec)

	return rec, nil
}

// sortByWavelength reorders the record's columns so that the wavelength
// array is ascending, keeping every frame row of counts, flux, and
// uncertainty aligned with it.
func sortByWavelength(rec *Record) {
	idx := make([]int, len(rec.Wavelength))
	for i := range idx {
		idx[i] = i
	}

	sort.Slice(idx, func(i, j int) bool {
		return rec.Wavelength[idx[i]] < rec.Wavelength[idx[j]]
	})

	rec.Wavelength = permute(rec.Wavelength, idx)

	for f := range rec.Counts {
		rec.Counts[f] = permute(rec.Counts[f], idx)
		rec.Flux[f] = permute(rec.Flux[f], idx)
		rec.Unc[f] = permute(rec.Unc[f], idx)
	}
}

func permute(x []float64, idx []int) []float64 {
	out := make([]float64, len(x))
	for i, j := range idx {
		out[i] = x[j]
	}

	return out
}

// combineOrders merges the order 1 and order 2 spectra of every frame
// into the final composite record.
func combineOrders(rec1, rec2 *Record, cfg Config) (*Record, error) {
	nframes := len(rec1.Flux)

	final := &Record{
		Flux:     make([][]float64, nframes),
		Unc:      make([][]float64, nframes),
		Filter:   rec1.Filter,
		Subarray: rec1.Subarray,
	}

	for f := 0; f < nframes; f++ {
		spec1 := combine.Spectrum{Wave: rec1.Wavelength, Flux: rec1.Flux[f], Unc: rec1.Unc[f]}
		spec2 := combine.Spectrum{Wave: rec2.Wavelength, Flux: rec2.Flux[f], Unc: rec2.Unc[f]}

		if cfg.Hook != nil {
			cfg.Hook(f, spec1, spec2)
		}

		merged, err := combine.Combine(spec1, spec2)
		if err != nil {
			return nil, fmt.Errorf("binning: combining frame %d: %w", f, err)
		}

		if f == 0 {
			final.Wavelength = merged.Wave
		} else if !sameGrid(final.Wavelength, merged.Wave) {
			return nil, fmt.Errorf("%w: frame %d", ErrGridMismatch, f)
		}

		final.Flux[f] = merged.Flux
		final.Unc[f] = merged.Unc
	}

	return final, nil
}

func sameGrid(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
