// Command sossinfo prints trace and wavelength-bin properties of
// NIRISS/SOSS readout subarrays.
//
// Usage:
//
//	sossinfo [flags] [subarray-name ...]
//
// Without arguments it prints info for all known subarrays.
//
// Examples:
//
//	sossinfo SUBSTRIP256
//	sossinfo -order 2 SUBSTRIP96
//	sossinfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-soss/soss/trace"
)

func main() {
	order := flag.Int("order", 0, "restrict output to one diffraction order (1 or 2; 0 = all)")
	list := flag.Bool("list", false, "list available subarray names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sossinfo [flags] [subarray-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints trace and wavelength-bin properties of SOSS subarrays.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all subarrays.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sossinfo SUBSTRIP256\n")
		fmt.Fprintf(os.Stderr, "  sossinfo -order 2 SUBSTRIP96\n")
		fmt.Fprintf(os.Stderr, "  sossinfo -list\n")
	}
	flag.Parse()

	if *list {
		for _, s := range trace.Subarrays() {
			fmt.Println(s.Name)
		}
		return
	}

	subs := resolveSubarrays(flag.Args())
	if len(subs) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching subarrays\n")
		os.Exit(1)
	}

	orders := []int{1, 2}
	if *order == 1 || *order == 2 {
		orders = []int{*order}
	} else if *order != 0 {
		fmt.Fprintf(os.Stderr, "error: order must be 1 or 2\n")
		os.Exit(1)
	}

	printInfo(subs, orders)
}

func resolveSubarrays(names []string) []trace.Subarray {
	if len(names) == 0 {
		return trace.Subarrays()
	}

	var out []trace.Subarray
	for _, name := range names {
		s, err := trace.LookupSubarray(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: unknown subarray %q (use -list to see available)\n", name)
			continue
		}
		out = append(out, s)
	}
	return out
}

func printInfo(subs []trace.Subarray, orders []int) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Subarray\tShape\tOrder\tWave [um]\tBins\tPixels/Bin\tTrace Rows\n")
	fmt.Fprintf(tw, "--------\t-----\t-----\t---------\t----\t----------\t----------\n")

	for _, sub := range subs {
		bins, err := trace.WavelengthBins(sub)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}

		for _, n := range orders {
			wave, err := trace.Wavelengths(n, sub)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return
			}

			centers, err := trace.Centers(n, sub)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return
			}

			minPix, maxPix := pixelRange(bins[n-1])
			cLo, cHi := floatRange(centers)

			fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%.3f - %.3f\t%d\t%d - %d\t%.1f - %.1f\n",
				sub.Name,
				sub.Rows, sub.Cols,
				n,
				wave[len(wave)-1], wave[0],
				len(bins[n-1]),
				minPix, maxPix,
				cLo, cHi,
			)
		}
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func pixelRange(bins []trace.Bin) (minPix, maxPix int) {
	if len(bins) == 0 {
		return 0, 0
	}

	minPix = bins[0].Pixels()
	maxPix = minPix

	for _, b := range bins[1:] {
		p := b.Pixels()
		if p < minPix {
			minPix = p
		}
		if p > maxPix {
			maxPix = p
		}
	}
	return minPix, maxPix
}

func floatRange(x []float64) (lo, hi float64) {
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
