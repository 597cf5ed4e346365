package cube

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by cube constructors.
var (
	ErrEmptyShape  = errors.New("cube: all dimensions must be positive")
	ErrLengthShape = errors.New("cube: data length does not match shape")
)

// Cube is a dense time-series image cube of detector counts with shape
// frames x rows x cols, stored row-major frame by frame.
type Cube struct {
	Frames int
	Rows   int
	Cols   int

	data []float64
}

// New allocates a zero-filled cube with the given shape.
func New(frames, rows, cols int) (*Cube, error) {
	if frames <= 0 || rows <= 0 || cols <= 0 {
		return nil, ErrEmptyShape
	}

	return &Cube{
		Frames: frames,
		Rows:   rows,
		Cols:   cols,
		data:   make([]float64, frames*rows*cols),
	}, nil
}

// FromSlice wraps flat row-major data as a frames x rows x cols cube.
// The cube takes ownership of data.
func FromSlice(data []float64, frames, rows, cols int) (*Cube, error) {
	if frames <= 0 || rows <= 0 || cols <= 0 {
		return nil, ErrEmptyShape
	}

	if len(data) != frames*rows*cols {
		return nil, fmt.Errorf("%w: have %d values, want %d", ErrLengthShape, len(data), frames*rows*cols)
	}

	return &Cube{Frames: frames, Rows: rows, Cols: cols, data: data}, nil
}

// FromGroups wraps flat row-major 4D data of shape
// frames x groups x rows x cols as a cube, merging the frame and group
// axes so that the result has frames*groups frames.
func FromGroups(data []float64, frames, groups, rows, cols int) (*Cube, error) {
	if groups <= 0 {
		return nil, ErrEmptyShape
	}

	return FromSlice(data, frames*groups, rows, cols)
}

// Frame returns the i-th frame as a mutable row-major view of length
// Rows*Cols.
func (c *Cube) Frame(i int) []float64 {
	n := c.Rows * c.Cols
	return c.data[i*n : (i+1)*n]
}

// At returns the value at frame f, row r, column col.
func (c *Cube) At(f, r, col int) float64 {
	return c.data[(f*c.Rows+r)*c.Cols+col]
}

// Set stores v at frame f, row r, column col.
func (c *Cube) Set(f, r, col int, v float64) {
	c.data[(f*c.Rows+r)*c.Cols+col] = v
}

// Clone returns a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	data := make([]float64, len(c.data))
	copy(data, c.data)

	return &Cube{Frames: c.Frames, Rows: c.Rows, Cols: c.Cols, data: data}
}

// Mask is a 2D multiplicative pixel weight map, nominally 0s and 1s,
// aligned to a cube's spatial shape.
type Mask struct {
	Rows int
	Cols int

	W []float64
}

// Ones returns an all-ones mask, i.e. no masking.
func Ones(rows, cols int) *Mask {
	w := make([]float64, rows*cols)
	for i := range w {
		w[i] = 1
	}

	return &Mask{Rows: rows, Cols: cols, W: w}
}

// Matches reports whether the mask's shape equals the cube's spatial shape.
func (m *Mask) Matches(c *Cube) bool {
	return m != nil && m.Rows == c.Rows && m.Cols == c.Cols && len(m.W) == m.Rows*m.Cols
}

// ApplyMask returns a copy of the cube with every frame multiplied
// elementwise by the mask. If the mask is nil or its shape does not match
// the cube's spatial shape, the cube is returned unchanged and unmasked;
// a shape mismatch deliberately skips masking rather than failing.
func ApplyMask(c *Cube, m *Mask) *Cube {
	if !m.Matches(c) {
		return c
	}

	out := c.Clone()
	for f := 0; f < out.Frames; f++ {
		vecmath.MulBlockInPlace(out.Frame(f), m.W)
	}

	return out
}

// NaNSafeSum sums x treating NaN values as zero.
func NaNSafeSum(x []float64) float64 {
	sum := 0.0

	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}

		sum += v
	}

	return sum
}
