// Package binning implements wavelength-bin 1D spectral extraction for
// NIRISS/SOSS time-series cubes.
//
// [BinCounts] collapses each frame of an image cube into per-bin count
// sums along an order's trace. [Extract] orchestrates the full pipeline:
// both orders are binned, converted to calibrated flux, sorted by
// ascending wavelength, and finally merged frame by frame into one
// composite spectrum covering the combined wavelength range.
//
// The uncertainty estimate attached to each spectrum is a placeholder
// (a 1% Gaussian draw around the flux); replace it with
// [WithUncertainty] when a real error budget is available.
package binning
