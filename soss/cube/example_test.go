package cube_test

import (
	"fmt"

	"github.com/cwbudde/algo-soss/soss/cube"
)

func ExampleFromGroups() {
	data := make([]float64, 2*3*4*5)

	c, _ := cube.FromGroups(data, 2, 3, 4, 5)
	fmt.Printf("frames=%d rows=%d cols=%d\n", c.Frames, c.Rows, c.Cols)

	// Output:
	// frames=6 rows=4 cols=5
}

func ExampleApplyMask() {
	c, _ := cube.FromSlice([]float64{1, 2, 3, 4}, 1, 2, 2)

	m := cube.Ones(2, 2)
	m.W[3] = 0

	out := cube.ApplyMask(c, m)
	fmt.Printf("masked=%v original=%v\n", out.Frame(0), c.Frame(0))

	// Output:
	// masked=[1 2 3 0] original=[1 2 3 4]
}
