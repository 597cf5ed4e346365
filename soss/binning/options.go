package binning

import (
	"math/rand"
	"time"

	"github.com/cwbudde/algo-soss/soss/calib"
	"github.com/cwbudde/algo-soss/soss/combine"
	"github.com/cwbudde/algo-soss/soss/cube"
)

// UncertaintyFunc synthesizes a per-sample uncertainty estimate for one
// frame of flux values.
type UncertaintyFunc func(flux []float64, rng *rand.Rand) []float64

// FrameHook observes the per-order spectra of one frame just before they
// are combined.
type FrameHook func(frame int, order1, order2 combine.Spectrum)

// Config holds extraction parameters.
type Config struct {
	Subarray    string
	Units       calib.Unit
	PixelMasks  []*cube.Mask
	Uncertainty UncertaintyFunc
	Hook        FrameHook
	Rand        *rand.Rand

	// forwarded to the flux calibration
	ExpTime float64
	Gain    float64
	Area    float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default extraction parameters: SUBSTRIP256,
// F-lambda units, no pixel masks, and the Gaussian placeholder
// uncertainty with a time-seeded generator.
func DefaultConfig() Config {
	return Config{
		Subarray:    "SUBSTRIP256",
		Units:       calib.FLambda,
		Uncertainty: GaussianUncertainty(0.01),
	}
}

// WithSubarray sets the subarray name.
func WithSubarray(name string) Option {
	return func(cfg *Config) {
		if name != "" {
			cfg.Subarray = name
		}
	}
}

// WithUnits sets the output flux unit.
func WithUnits(u calib.Unit) Option {
	return func(cfg *Config) {
		cfg.Units = u
	}
}

// WithPixelMasks sets the per-order pixel masks. The number of masks
// must match the number of extracted orders.
func WithPixelMasks(masks []*cube.Mask) Option {
	return func(cfg *Config) {
		cfg.PixelMasks = masks
	}
}

// WithUncertainty replaces the placeholder uncertainty estimator.
func WithUncertainty(fn UncertaintyFunc) Option {
	return func(cfg *Config) {
		if fn != nil {
			cfg.Uncertainty = fn
		}
	}
}

// WithFrameHook installs a hook observing each frame's per-order spectra
// before combination.
func WithFrameHook(hook FrameHook) Option {
	return func(cfg *Config) {
		cfg.Hook = hook
	}
}

// WithRand sets the random source used by the uncertainty estimator,
// for reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(cfg *Config) {
		if rng != nil {
			cfg.Rand = rng
		}
	}
}

// WithExposureTime overrides the per-frame integration time in seconds
// used by the flux calibration.
func WithExposureTime(seconds float64) Option {
	return func(cfg *Config) {
		if seconds > 0 {
			cfg.ExpTime = seconds
		}
	}
}

// WithGain overrides the detector gain in e-/ADU used by the flux
// calibration.
func WithGain(gain float64) Option {
	return func(cfg *Config) {
		if gain > 0 {
			cfg.Gain = gain
		}
	}
}

// WithArea overrides the telescope collecting area in cm^2 used by the
// flux calibration.
func WithArea(area float64) Option {
	return func(cfg *Config) {
		if area > 0 {
			cfg.Area = area
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return cfg
}

// GaussianUncertainty returns the placeholder uncertainty estimator: a
// normal draw centered on each flux value with standard deviation
// frac times the value. It is a stand-in until a physically derived
// error budget is available and must not be treated as ground truth.
func GaussianUncertainty(frac float64) UncertaintyFunc {
	return func(flux []float64, rng *rand.Rand) []float64 {
		out := make([]float64, len(flux))
		for i, v := range flux {
			out[i] = v + rng.NormFloat64()*frac*v
		}

		return out
	}
}
