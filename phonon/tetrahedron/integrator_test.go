package tetrahedron

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-phonon/internal/testutil"
)

// cubicFrequencies returns three sorted branches of a simple cubic lattice with
// nearest-neighbour longitudinal and transverse springs.
func cubicFrequencies(q [3]float64) []float64 {
	var c [3]float64
	for a := range c {
		c[a] = 1 - math.Cos(2*math.Pi*q[a])
	}
	out := make([]float64, 3)
	for a := range out {
		d := 2 * c[a]
		for b := range c {
			if b != a {
				d += 0.5 * c[b]
			}
		}
		out[a] = math.Sqrt(d)
	}
	slices.Sort(out)
	return out
}

// cubicMesh samples cubicFrequencies on an n×n×n mesh, optionally folding q
// and -q together.
func cubicMesh(n int, timeReversal bool) (Topology, [][]float64) {
	mesh := [3]int{n, n, n}
	top := Topology{
		MeshNumbers:       mesh,
		GridAddress:       GridAddresses(mesh),
		GridMappingTable:  make([]int, n*n*n),
		ReciprocalLattice: cubic,
	}
	var freqs [][]float64
	for gp, a := range top.GridAddress {
		top.GridMappingTable[gp] = gp
		if timeReversal {
			top.GridMappingTable[gp] = min(gp, GridIndex([3]int{-a[0], -a[1], -a[2]}, mesh))
		}
		if top.GridMappingTable[gp] == gp {
			q := [3]float64{float64(a[0]) / float64(n), float64(a[1]) / float64(n), float64(a[2]) / float64(n)}
			freqs = append(freqs, cubicFrequencies(q))
		}
	}
	return top, freqs
}

func column(m [][]float64, c int) []float64 {
	out := make([]float64, len(m))
	for i := range m {
		out[i] = m[i][c]
	}
	return out
}

func TestIntegrateDensityIntegratesToBandCount(t *testing.T) {
	top, freqs := cubicMesh(6, false)
	in, err := NewIntegrator(top, freqs)
	require.NoError(t, err)

	points := testutil.LinSpace(-0.1, 2.6, 541)
	dos, err := in.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)

	values := column(dos, 0)
	testutil.RequireFinite(t, values)
	testutil.RequireNonNegative(t, values, 0)
	require.InDelta(t, 3.0, testutil.Trapezoid(points, values), 0.03)
}

func TestIntegrateStepCountsStates(t *testing.T) {
	top, freqs := cubicMesh(4, false)
	in, err := NewIntegrator(top, freqs)
	require.NoError(t, err)

	points := []float64{-1, 0.8, 1.4, 10}
	n, err := in.Integrate(points, nil, FunctionStep)
	require.NoError(t, err)

	require.InDelta(t, 0.0, n[0][0], 1e-12)
	require.InDelta(t, 3.0, n[3][0], 1e-12)
	require.Greater(t, n[2][0], n[1][0])
	require.Greater(t, n[1][0], 0.0)
	require.Less(t, n[2][0], 3.0)
}

func TestIntegrateStepMatchesIntegratedDensity(t *testing.T) {
	top, freqs := cubicMesh(4, false)
	in, err := NewIntegrator(top, freqs)
	require.NoError(t, err)

	points := testutil.LinSpace(0, 1.2, 1201)
	dos, err := in.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	n, err := in.Integrate(points[len(points)-1:], nil, FunctionStep)
	require.NoError(t, err)

	require.InDelta(t, n[0][0], testutil.Trapezoid(points, column(dos, 0)), 5e-3)
}

func TestStreamMatchesIntegrate(t *testing.T) {
	top, freqs := cubicMesh(4, true)
	in, err := NewIntegrator(top, freqs)
	require.NoError(t, err)

	points := testutil.LinSpace(0, 2.5, 101)
	bulk, err := in.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)

	streamed := make([]float64, len(points))
	count := 0
	for i, iw := range in.Stream(points, FunctionDelta) {
		require.Len(t, iw, in.NumBands())
		for b := range iw {
			for j := range points {
				streamed[j] += in.Weight(i) * iw[b][j]
			}
		}
		count++
	}
	require.Equal(t, in.NumIrreducible(), count)
	testutil.RequireSliceNearlyEqual(t, streamed, column(bulk, 0), 1e-12)
}

func TestStreamIsRestartableAndStoppable(t *testing.T) {
	top, freqs := cubicMesh(2, false)
	in, err := NewIntegrator(top, freqs)
	require.NoError(t, err)

	seq := in.Stream([]float64{0.5, 1}, FunctionDelta)
	for range 2 {
		n := 0
		for range seq {
			n++
		}
		require.Equal(t, 8, n)
	}

	n := 0
	for i := range seq {
		n++
		if i == 2 {
			break
		}
	}
	require.Equal(t, 3, n)
}

func TestTimeReversalMatchesFullMesh(t *testing.T) {
	points := testutil.LinSpace(0, 2.5, 126)

	fullTop, fullFreqs := cubicMesh(4, false)
	full, err := NewIntegrator(fullTop, fullFreqs)
	require.NoError(t, err)

	redTop, redFreqs := cubicMesh(4, true)
	red, err := NewIntegrator(redTop, redFreqs)
	require.NoError(t, err)
	require.Less(t, red.NumIrreducible(), full.NumIrreducible())

	a, err := full.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	b, err := red.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, column(b, 0), column(a, 0), 1e-10)
}

func TestIntegrateWorkerCountDoesNotChangeResult(t *testing.T) {
	top, freqs := cubicMesh(4, false)
	points := testutil.LinSpace(0, 2.5, 51)

	one, err := NewIntegrator(top, freqs, WithWorkers(1))
	require.NoError(t, err)
	many, err := NewIntegrator(top, freqs, WithWorkers(5))
	require.NoError(t, err)

	a, err := one.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	b, err := many.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, column(b, 0), column(a, 0), 1e-12)
}

func TestIntegrateCoefficientChannelsSumToTotal(t *testing.T) {
	top, freqs := cubicMesh(4, true)
	in, err := NewIntegrator(top, freqs)
	require.NoError(t, err)

	split := testutil.DeterministicFrequencies(5, in.NumIrreducible(), in.NumBands(), 0, 1)
	coef := make([][][]float64, in.NumIrreducible())
	for i := range coef {
		rest := make([]float64, in.NumBands())
		for b := range rest {
			rest[b] = 1 - split[i][b]
		}
		coef[i] = [][]float64{split[i], rest}
	}

	points := testutil.LinSpace(0, 2.5, 76)
	total, err := in.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	parts, err := in.Integrate(points, coef, FunctionDelta)
	require.NoError(t, err)

	sum := make([]float64, len(points))
	for j := range points {
		sum[j] = parts[j][0] + parts[j][1]
	}
	testutil.RequireSliceNearlyEqual(t, sum, column(total, 0), 1e-12)
}

func TestWithWeightsScalesResult(t *testing.T) {
	top, freqs := cubicMesh(2, false)
	w := make([]float64, len(freqs))
	for i := range w {
		w[i] = 2
	}

	plain, err := NewIntegrator(top, freqs)
	require.NoError(t, err)
	doubled, err := NewIntegrator(top, freqs, WithWeights(w))
	require.NoError(t, err)

	points := []float64{0.5, 1, 1.5}
	a, err := plain.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	b, err := doubled.Integrate(points, nil, FunctionDelta)
	require.NoError(t, err)
	for j := range points {
		require.InDelta(t, 2*a[j][0], b[j][0], 1e-12)
	}

	_, err = NewIntegrator(top, freqs, WithWeights([]float64{1}))
	require.ErrorIs(t, err, ErrTopologyMismatch)
}

func TestNewIntegratorErrors(t *testing.T) {
	top, freqs := cubicMesh(2, false)

	bad := top
	bad.MeshNumbers = [3]int{2, 0, 2}
	_, err := NewIntegrator(bad, freqs)
	require.ErrorIs(t, err, ErrInvalidMesh)

	_, err = NewIntegrator(top, freqs[:3])
	require.ErrorIs(t, err, ErrTopologyMismatch)

	ragged := slices.Clone(freqs)
	ragged[1] = ragged[1][:2]
	_, err = NewIntegrator(top, ragged)
	require.ErrorIs(t, err, ErrTopologyMismatch)

	bad = top
	bad.GridAddress = slices.Clone(top.GridAddress)
	bad.GridAddress[0], bad.GridAddress[1] = bad.GridAddress[1], bad.GridAddress[0]
	_, err = NewIntegrator(bad, freqs)
	require.ErrorIs(t, err, ErrTopologyMismatch)

	bad = top
	bad.GridMappingTable = slices.Clone(top.GridMappingTable)
	bad.GridMappingTable[3] = 9
	_, err = NewIntegrator(bad, freqs)
	require.ErrorIs(t, err, ErrTopologyMismatch)

	bad = top
	bad.GridMappingTable = []int{0, 0, 1, 1, 4, 4, 4, 4}
	_, err = NewIntegrator(bad, freqs)
	require.ErrorIs(t, err, ErrTopologyMismatch)
}

func TestIntegrateCoefficientShapeErrors(t *testing.T) {
	top, freqs := cubicMesh(2, false)
	in, err := NewIntegrator(top, freqs)
	require.NoError(t, err)

	ones := func(channels, bands int) [][]float64 {
		out := make([][]float64, channels)
		for c := range out {
			out[c] = make([]float64, bands)
			for b := range out[c] {
				out[c][b] = 1
			}
		}
		return out
	}

	coef := make([][][]float64, len(freqs)-1)
	_, err = in.Integrate([]float64{1}, coef, FunctionDelta)
	require.ErrorIs(t, err, ErrCoefficientShape)

	coef = make([][][]float64, len(freqs))
	for i := range coef {
		coef[i] = ones(2, 3)
	}
	coef[4] = ones(1, 3)
	_, err = in.Integrate([]float64{1}, coef, FunctionDelta)
	require.ErrorIs(t, err, ErrCoefficientShape)

	coef[4] = ones(2, 2)
	_, err = in.Integrate([]float64{1}, coef, FunctionDelta)
	require.ErrorIs(t, err, ErrCoefficientShape)
}

func TestGridAddressesRoundTrip(t *testing.T) {
	mesh := [3]int{3, 4, 5}
	for gp, a := range GridAddresses(mesh) {
		require.Equal(t, gp, GridIndex(a, mesh))
		for i := range a {
			require.LessOrEqual(t, 2*a[i], mesh[i])
			require.Greater(t, 2*a[i], -mesh[i])
		}
	}
}

func TestIrreducibleGridPoints(t *testing.T) {
	top := Topology{GridMappingTable: []int{0, 1, 1, 0, 4, 1}}
	points, mult := top.IrreducibleGridPoints()
	require.Equal(t, []int{0, 1, 4}, points)
	require.Equal(t, []int{2, 3, 1}, mult)
}
