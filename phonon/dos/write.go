package dos

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTotal writes one "%20.10f%20.10f" line per frequency point, preceded
// by "# comment" unless comment is empty.
func WriteTotal(w io.Writer, points, values []float64, comment string) error {
	if len(points) != len(values) {
		return fmt.Errorf("%w: %d points, %d values", ErrShapeMismatch, len(points), len(values))
	}
	return WritePartial(w, points, [][]float64{values}, comment)
}

// WritePartial writes the frequency followed by one column per channel, each
// formatted "%20.10f", preceded by "# comment" unless comment is empty. pdos
// is indexed [channel][point].
func WritePartial(w io.Writer, points []float64, pdos [][]float64, comment string) error {
	for c, row := range pdos {
		if len(row) != len(points) {
			return fmt.Errorf("%w: channel %d has %d values for %d points", ErrShapeMismatch, c, len(row), len(points))
		}
	}

	bw := bufio.NewWriter(w)
	if comment != "" {
		fmt.Fprintf(bw, "# %s\n", comment)
	}
	for j, f := range points {
		fmt.Fprintf(bw, "%20.10f", f)
		for _, row := range pdos {
			fmt.Fprintf(bw, "%20.10f", row[j])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
