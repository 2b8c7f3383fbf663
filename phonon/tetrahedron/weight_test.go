package tetrahedron

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortVertices(t *testing.T) {
	tests := []struct {
		in     [4]float64
		want   [4]float64
		wantCI int
	}{
		{[4]float64{1, 2, 3, 4}, [4]float64{1, 2, 3, 4}, 0},
		{[4]float64{4, 3, 2, 1}, [4]float64{1, 2, 3, 4}, 3},
		{[4]float64{2.5, 3, 1, 0}, [4]float64{0, 1, 2.5, 3}, 2},
	}
	for _, tt := range tests {
		v, ci := sortVertices(&tt.in)
		require.Equal(t, tt.want, v)
		require.Equal(t, tt.wantCI, ci)
	}
}

// simpson integrates f on [a, b] with n (even) intervals. The end points are
// pulled inwards slightly because the weights vanish exactly at vertex
// frequencies while their one-sided limits do not.
func simpson(f func(float64) float64, a, b float64, n int) float64 {
	const nudge = 1e-12
	a += nudge
	b -= nudge
	h := (b - a) / float64(n)
	sum := f(a) + f(b)
	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		if i%2 == 1 {
			sum += 4 * f(x)
		} else {
			sum += 2 * f(x)
		}
	}
	return sum * h / 3
}

func TestDeltaWeightNormalised(t *testing.T) {
	v := [4]float64{0, 1, 2.5, 4}
	total := func(w float64) float64 {
		s := 0.0
		for ci := 0; ci < 4; ci++ {
			s += deltaWeight(w, &v, ci)
		}
		return s
	}
	// Integrate each piece separately; g has kinks at the vertices.
	integral := simpson(total, 0, 1, 2000) + simpson(total, 1, 2.5, 2000) + simpson(total, 2.5, 4, 2000)
	require.InDelta(t, 1.0, integral, 1e-9)
}

func TestDeltaWeightIntegratesToStepWeight(t *testing.T) {
	v := [4]float64{-0.5, 0.2, 0.3, 1.7}
	knots := []float64{v[0], v[1], v[2], v[3]}

	for ci := 0; ci < 4; ci++ {
		for _, omega := range []float64{-0.2, 0.25, 0.9, 1.7, 2.0} {
			integral := 0.0
			for k := 0; k+1 < len(knots); k++ {
				lo, hi := knots[k], math.Min(knots[k+1], omega)
				if hi <= lo {
					break
				}
				integral += simpson(func(w float64) float64 { return deltaWeight(w, &v, ci) }, lo, hi, 4000)
			}
			require.InDelta(t, integral, stepWeight(omega, &v, ci), 1e-9, "ci=%d omega=%v", ci, omega)
		}
	}
}

func TestStepWeightCornerSum(t *testing.T) {
	v := [4]float64{0, 1, 2, 3}
	// Volume fraction below omega, from the Blöchl expressions.
	f := func(w float64, n, m int) float64 { return (w - v[m]) / (v[n] - v[m]) }
	volume := func(w float64) float64 {
		switch {
		case w <= v[0]:
			return 0
		case w < v[1]:
			return f(w, 1, 0) * f(w, 2, 0) * f(w, 3, 0)
		case w < v[2]:
			return f(w, 3, 1)*f(w, 2, 1) + f(w, 3, 0)*f(w, 1, 3)*f(w, 2, 1) + f(w, 3, 0)*f(w, 2, 0)*f(w, 1, 2)
		case w < v[3]:
			return 1 - f(w, 0, 3)*f(w, 1, 3)*f(w, 2, 3)
		default:
			return 1
		}
	}

	for _, w := range []float64{-1, 0.5, 1, 1.5, 2.5, 3, 4} {
		s := 0.0
		for ci := 0; ci < 4; ci++ {
			s += stepWeight(w, &v, ci)
		}
		require.InDelta(t, volume(w), s, 1e-12, "omega=%v", w)
	}
}

func TestDeltaWeightDegenerateVertices(t *testing.T) {
	v := [4]float64{1, 1, 1, 1}
	for ci := 0; ci < 4; ci++ {
		require.Equal(t, 0.0, deltaWeight(1, &v, ci))
		require.Equal(t, 0.0, deltaWeight(0.5, &v, ci))
		require.Equal(t, 0.0, stepWeight(0.5, &v, ci))
		require.Equal(t, 0.25, stepWeight(1.5, &v, ci))
	}

	v = [4]float64{0, 0, 2, 2}
	for _, w := range []float64{0.5, 1, 1.5} {
		s := 0.0
		for ci := 0; ci < 4; ci++ {
			d := deltaWeight(w, &v, ci)
			require.False(t, math.IsNaN(d) || math.IsInf(d, 0))
			s += d
		}
		require.Greater(t, s, 0.0)
	}
}

func TestIntegrationWeightAveragesTetrahedra(t *testing.T) {
	var omegas [24][4]float64
	for i := range omegas {
		omegas[i] = [4]float64{0, 1, 2, 3}
	}
	v := [4]float64{0, 1, 2, 3}
	// 24 identical tetrahedra divided by 6.
	require.InDelta(t, 4*deltaWeight(1.5, &v, 0), IntegrationWeight(1.5, &omegas, FunctionDelta), 1e-15)
	require.InDelta(t, 4*stepWeight(1.5, &v, 0), IntegrationWeight(1.5, &omegas, FunctionStep), 1e-15)
}

func TestFunctionString(t *testing.T) {
	require.Equal(t, "delta", FunctionDelta.String())
	require.Equal(t, "step", FunctionStep.String())
	require.Equal(t, "Function(7)", Function(7).String())
}
