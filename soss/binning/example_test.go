package binning_test

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-soss/soss/binning"
	"github.com/cwbudde/algo-soss/soss/cube"
	"github.com/cwbudde/algo-soss/soss/trace"
)

func ExampleBinCounts() {
	// two frames of [1 2; 3 4] and one bin covering the whole frame
	c, _ := cube.FromSlice([]float64{1, 2, 3, 4, 1, 2, 3, 4}, 2, 2, 2)

	bin := trace.Bin{
		Rows: []int{0, 0, 1, 1},
		Cols: []int{0, 1, 0, 1},
	}

	counts := binning.BinCounts(c, []trace.Bin{bin}, cube.Ones(2, 2))
	fmt.Printf("counts=%.0f %.0f\n", counts[0][0], counts[1][0])

	// Output:
	// counts=10 10
}

func ExampleExtract() {
	sub, _ := trace.LookupSubarray("SUBSTRIP256")

	c, _ := cube.New(2, sub.Rows, sub.Cols)
	for f := 0; f < c.Frames; f++ {
		frame := c.Frame(f)
		for i := range frame {
			frame[i] = 100
		}
	}

	noUnc := func(flux []float64, _ *rand.Rand) []float64 {
		out := make([]float64, len(flux))
		copy(out, flux)
		return out
	}

	results, _ := binning.Extract(c, "CLEAR", binning.WithUncertainty(noUnc))

	o1 := results["order1"]
	fmt.Printf("records=%d\n", len(results))
	fmt.Printf("order1: %d bins, %.3f - %.3f um\n",
		len(o1.Wavelength), o1.Wavelength[0], o1.Wavelength[len(o1.Wavelength)-1])

	// Output:
	// records=3
	// order1: 2048 bins, 0.858 - 2.833 um
}
