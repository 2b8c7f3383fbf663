package dos

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-phonon/internal/conv"
	"github.com/cwbudde/algo-phonon/phonon/smearing"
)

// samples is the flattened input of a smearing run: one entry per
// (grid point, band) and one weight vector per output channel.
type samples struct {
	freqs   []float64
	weights [][]float64
}

// flatten lays out freqs row by row. weight(g, c, b) gives the weight of band
// b of grid point g in channel c.
func flatten(freqs [][]float64, channels int, weight func(g, c, b int) float64) samples {
	n := 0
	for _, row := range freqs {
		n += len(row)
	}
	s := samples{
		freqs:   make([]float64, 0, n),
		weights: newMatrix(channels, n),
	}
	i := 0
	for g, row := range freqs {
		s.freqs = append(s.freqs, row...)
		for b := range row {
			for c := 0; c < channels; c++ {
				s.weights[c][i] = weight(g, c, b)
			}
			i++
		}
	}
	return s
}

// smear returns Σ_i weights[c][i]·K(freqs[i] - f) for every channel c and
// point f, either directly or through binning.
func smear(m Smearing, points []float64, pitch float64, s samples) ([][]float64, error) {
	if m.Oversample > 0 && len(points) > 1 {
		return smearBinned(m.Kernel, points, pitch, m.Oversample, s)
	}
	return smearDirect(m.Kernel, points, s), nil
}

func smearDirect(k smearing.Kernel, points []float64, s samples) [][]float64 {
	out := newMatrix(len(s.weights), len(points))
	x := make([]float64, len(s.freqs))
	kv := make([]float64, len(s.freqs))
	for j, f := range points {
		for i, v := range s.freqs {
			x[i] = v - f
		}
		k.CalcTo(kv, x)
		for c, w := range s.weights {
			out[c][j] = vecmath.DotProduct(w, kv)
		}
	}
	return out
}

// smearBinned spreads every sample linearly onto the two nearest nodes of a
// grid with spacing pitch/oversample whose node 0 is points[0], convolves the
// histogram with the kernel sampled on the same spacing, and reads the result
// back at every oversample-th node. Short kernels are convolved directly,
// long ones by FFT overlap-add.
func smearBinned(k smearing.Kernel, points []float64, pitch float64, oversample int, s samples) ([][]float64, error) {
	step := pitch / float64(oversample)
	origin := points[0]
	last := (len(points) - 1) * oversample

	pos := make([]float64, len(s.freqs))
	lo, hi := 0, last
	for i, f := range s.freqs {
		u := (f - origin) / step
		pos[i] = u
		node := int(math.Floor(u))
		lo = min(lo, node)
		hi = max(hi, node+1)
	}

	// The kernel must reach from any grid point to any sample.
	half := max(hi, last-lo)
	x := make([]float64, 2*half+1)
	for i := range x {
		x[i] = float64(i-half) * step
	}
	kern := make([]float64, len(x))
	k.CalcTo(kern, x)

	hist := make([]float64, hi-lo+1)
	out := newMatrix(len(s.weights), len(points))
	for c, w := range s.weights {
		clear(hist)
		for i, u := range pos {
			node := math.Floor(u)
			t := u - node
			idx := int(node) - lo
			hist[idx] += (1 - t) * w[i]
			hist[idx+1] += t * w[i]
		}
		full, err := conv.Convolve(hist, kern)
		if err != nil {
			return nil, err
		}
		for p := range out[c] {
			out[c][p] = full[p*oversample-lo+half]
		}
	}
	return out, nil
}
