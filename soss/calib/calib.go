package calib

import (
	"errors"
	"math"
)

// Errors returned by the calibration routines.
var (
	ErrUnknownFilter = errors.New("calib: unknown filter")
	ErrUnknownOrder  = errors.New("calib: order must be 1 or 2")
	ErrShapeMismatch = errors.New("calib: counts row length does not match wavelength length")
)

// Unit selects the physical unit of the converted flux.
type Unit int

const (
	// FLambda is flux density per unit wavelength, erg s^-1 cm^-2 A^-1.
	FLambda Unit = iota
	// Jansky is flux density per unit frequency, 1 Jy = 1e-23 erg s^-1 cm^-2 Hz^-1.
	Jansky
)

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case FLambda:
		return "erg/s/cm2/A"
	case Jansky:
		return "Jy"
	default:
		return "unknown"
	}
}

// Physical constants in CGS-derived units used by the conversion.
const (
	hcErgMicron  = 1.98645e-12 // photon energy numerator: h*c in erg*um
	speedAngPerS = 2.99792e18  // speed of light in Angstrom/s
	jyCGS        = 1e-23       // 1 Jy in erg/s/cm2/Hz
)

// responseFloor is the relative throughput below which a wavelength is
// treated as unilluminated; converted flux there is zero instead of
// blowing up on division.
const responseFloor = 1e-4

// Config parameterizes the counts-to-flux conversion.
type Config struct {
	Filter   string // CLEAR or F277W
	Subarray string
	Order    int
	Units    Unit

	Area    float64 // telescope collecting area in cm^2
	ExpTime float64 // effective integration time per frame in seconds
	Gain    float64 // detector gain in e-/ADU
}

const (
	defaultAreaCm2 = 254000.0
	defaultGain    = 1.61
)

// frame times in seconds per readout region
var frameTimes = map[string]float64{
	"FULL":        10.737,
	"SUBSTRIP256": 5.494,
	"SUBSTRIP96":  2.214,
}

func normalizeConfig(cfg Config) Config {
	if cfg.Filter == "" {
		cfg.Filter = "CLEAR"
	}

	if cfg.Subarray == "" {
		cfg.Subarray = "SUBSTRIP256"
	}

	if cfg.Area <= 0 {
		cfg.Area = defaultAreaCm2
	}

	if cfg.ExpTime <= 0 {
		if t, ok := frameTimes[cfg.Subarray]; ok {
			cfg.ExpTime = t
		} else {
			cfg.ExpTime = frameTimes["SUBSTRIP256"]
		}
	}

	if cfg.Gain <= 0 {
		cfg.Gain = defaultGain
	}

	return cfg
}

// Response returns the relative system throughput at wavelength wl (in
// microns) for the given filter and order. The CLEAR position passes
// both orders with smooth broadband curves; F277W cuts on near 2.4 um,
// which removes order 2 entirely.
func Response(wl float64, filter string, order int) (float64, error) {
	if order < 1 || order > 2 {
		return 0, ErrUnknownOrder
	}

	var r float64

	switch order {
	case 1:
		r = gaussianBand(wl, 0.45, 1.60, 1.00)
	case 2:
		r = gaussianBand(wl, 0.25, 0.95, 0.50)
	}

	switch filter {
	case "CLEAR":
		return r, nil
	case "F277W":
		// smooth cut-on around 2.40 um
		return r / (1 + math.Exp(-(wl-2.40)/0.02)), nil
	default:
		return 0, ErrUnknownFilter
	}
}

func gaussianBand(wl, peak, center, width float64) float64 {
	d := (wl - center) / width
	return peak * math.Exp(-d*d)
}

// Converter turns binned detector counts into calibrated flux densities.
type Converter struct {
	cfg Config
}

// NewConverter creates a converter with normalized defaults.
func NewConverter(cfg Config) *Converter {
	return &Converter{cfg: normalizeConfig(cfg)}
}

// Convert is a one-shot counts-to-flux conversion.
func Convert(wavelength []float64, counts [][]float64, cfg Config) ([][]float64, error) {
	return NewConverter(cfg).Convert(wavelength, counts)
}

// Convert converts a counts matrix of shape frames x bins into flux
// densities in the configured units. wavelength holds the bin-center
// wavelengths in microns, one per counts column, in any order; the bin
// width is taken from the spacing to the neighboring wavelengths.
func (cv *Converter) Convert(wavelength []float64, counts [][]float64) ([][]float64, error) {
	cfg := cv.cfg

	scale := make([]float64, len(wavelength))

	for i, wl := range wavelength {
		resp, err := Response(wl, cfg.Filter, cfg.Order)
		if err != nil {
			return nil, err
		}

		if resp < responseFloor {
			scale[i] = 0
			continue
		}

		dlambda := binWidthAngstrom(wavelength, i)
		if dlambda <= 0 || wl <= 0 {
			scale[i] = 0
			continue
		}

		// ADU -> electrons -> photons -> energy, divided down to a
		// flux density per Angstrom.
		ePhoton := hcErgMicron / wl
		scale[i] = cfg.Gain * ePhoton / (cfg.Area * resp * dlambda * cfg.ExpTime)

		if cfg.Units == Jansky {
			wlAng := wl * 1e4
			scale[i] *= wlAng * wlAng / speedAngPerS / jyCGS
		}
	}

	out := make([][]float64, len(counts))

	for f, row := range counts {
		if len(row) != len(wavelength) {
			return nil, ErrShapeMismatch
		}

		fluxRow := make([]float64, len(row))
		for i, c := range row {
			fluxRow[i] = c * scale[i]
		}

		out[f] = fluxRow
	}

	return out, nil
}

// binWidthAngstrom estimates the wavelength width of bin i in Angstrom
// from the spacing of the surrounding bin centers.
func binWidthAngstrom(wavelength []float64, i int) float64 {
	n := len(wavelength)
	if n < 2 {
		return 0
	}

	var d float64

	switch {
	case i == 0:
		d = wavelength[1] - wavelength[0]
	case i == n-1:
		d = wavelength[n-1] - wavelength[n-2]
	default:
		d = (wavelength[i+1] - wavelength[i-1]) / 2
	}

	return math.Abs(d) * 1e4
}
