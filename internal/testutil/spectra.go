package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
	"slices"
)

// Trapezoid integrates y(x) with the trapezoidal rule.
func Trapezoid(x, y []float64) float64 {
	n := min(len(x), len(y))
	sum := 0.0
	for i := 1; i < n; i++ {
		sum += 0.5 * (y[i] + y[i-1]) * (x[i] - x[i-1])
	}
	return sum
}

// LinSpace returns n evenly spaced points from start to stop inclusive.
func LinSpace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// NearestIndex returns the index of the element of x closest to v.
func NearestIndex(x []float64, v float64) int {
	best := 0
	for i := range x {
		if math.Abs(x[i]-v) < math.Abs(x[best]-v) {
			best = i
		}
	}
	return best
}

// LocalMaxima returns the indices i with y[i-1] < y[i] >= y[i+1].
func LocalMaxima(y []float64) []int {
	var out []int
	for i := 1; i+1 < len(y); i++ {
		if y[i] > y[i-1] && y[i] >= y[i+1] {
			out = append(out, i)
		}
	}
	return out
}

// DeterministicFrequencies returns a rows x bands matrix of uniformly
// distributed values in [lo, hi) with a fixed seed. Rows are sorted.
func DeterministicFrequencies(seed int64, rows, bands int, lo, hi float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, rows)
	for i := range out {
		row := make([]float64, bands)
		for j := range row {
			row[j] = lo + rng.Float64()*(hi-lo)
		}
		slices.Sort(row)
		out[i] = row
	}
	return out
}

// RandomEigenvectors returns a dim x dim unitary matrix indexed [component][band]
// built by Gram-Schmidt orthonormalisation of deterministic complex noise.
// Every column has unit norm.
func RandomEigenvectors(seed int64, dim int) [][]complex128 {
	rng := rand.New(rand.NewSource(seed))
	cols := make([][]complex128, dim)
	for b := range cols {
		v := make([]complex128, dim)
		for {
			for i := range v {
				v[i] = complex(rng.NormFloat64(), rng.NormFloat64())
			}
			for _, u := range cols[:b] {
				var dot complex128
				for i := range v {
					dot += cmplx.Conj(u[i]) * v[i]
				}
				for i := range v {
					v[i] -= dot * u[i]
				}
			}
			norm := 0.0
			for _, c := range v {
				norm += real(c)*real(c) + imag(c)*imag(c)
			}
			if norm > 1e-12 {
				scale := complex(1/math.Sqrt(norm), 0)
				for i := range v {
					v[i] *= scale
				}
				break
			}
		}
		cols[b] = v
	}

	out := make([][]complex128, dim)
	for i := range out {
		out[i] = make([]complex128, dim)
		for b := range cols {
			out[i][b] = cols[b][i]
		}
	}
	return out
}
