// Package trace models the NIRISS/SOSS spectral traces on the detector:
// subarray readout geometry, per-order trace-center positions, the
// per-column wavelength solution, and the wavelength-bin pixel groupings
// used for 1D extraction.
//
// The GR700XD grism disperses two overlapping diffraction orders across
// the detector. Order 1 covers roughly 0.86-2.83 um and order 2 roughly
// 0.59-1.43 um, both running red to blue with increasing column. A
// wavelength bin is the set of pixels in one detector column within the
// extraction half-width of that order's trace center; summing a bin
// collapses the cross-dispersion profile into one resolution element.
package trace
