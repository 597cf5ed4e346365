package testutil

import (
	"math/rand"

	"github.com/cwbudde/algo-soss/soss/cube"
)

// ConstantCube generates a cube with every pixel set to value.
func ConstantCube(frames, rows, cols int, value float64) *cube.Cube {
	c, err := cube.New(frames, rows, cols)
	if err != nil {
		panic(err)
	}

	for f := 0; f < frames; f++ {
		frame := c.Frame(f)
		for i := range frame {
			frame[i] = value
		}
	}

	return c
}

// RampCube generates a cube whose pixel values increase by one in
// row-major order within each frame, starting at start per frame.
func RampCube(frames, rows, cols int, start float64) *cube.Cube {
	c, err := cube.New(frames, rows, cols)
	if err != nil {
		panic(err)
	}

	for f := 0; f < frames; f++ {
		frame := c.Frame(f)
		for i := range frame {
			frame[i] = start + float64(i)
		}
	}

	return c
}

// NoiseCube generates a cube of uniform noise in [0, amplitude) with a
// fixed seed for reproducibility.
func NoiseCube(seed int64, frames, rows, cols int, amplitude float64) *cube.Cube {
	c, err := cube.New(frames, rows, cols)
	if err != nil {
		panic(err)
	}

	rng := rand.New(rand.NewSource(seed))

	for f := 0; f < frames; f++ {
		frame := c.Frame(f)
		for i := range frame {
			frame[i] = rng.Float64() * amplitude
		}
	}

	return c
}
