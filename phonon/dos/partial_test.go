package dos

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-phonon/internal/testutil"
	"github.com/cwbudde/algo-phonon/phonon/mesh"
)

func channelSum(pdos [][]float64) []float64 {
	sums, _ := SumChannels(pdos, [][]int{seq(len(pdos))})
	return sums[0]
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPartialChannelsSumToTotal(t *testing.T) {
	m := randomMesh(t, 5, 2)

	total, err := NewTotal(m, WithSigma(0.2))
	require.NoError(t, err)
	require.NoError(t, total.Run())
	_, want, _ := total.DOS()

	for _, opts := range [][]Option{
		{WithSigma(0.2)},
		{WithSigma(0.2), WithXYZProjection()},
		{WithSigma(0.2), WithBinnedSmearing(4)},
	} {
		p, err := NewPartial(m, opts...)
		require.NoError(t, err)
		require.NoError(t, p.Run())
		points, pdos, err := p.PDOS()
		require.NoError(t, err)
		require.Equal(t, total.FrequencyPoints(), points)
		require.Len(t, pdos, p.NumChannels())
		for _, row := range pdos {
			testutil.RequireNonNegative(t, row, 1e-12)
		}

		tol := 1e-10
		if p.Mode().(Smearing).Oversample > 0 {
			tol = 2e-3 * testutil.MaxAbs(want)
		}
		testutil.RequireSliceNearlyEqual(t, channelSum(pdos), want, tol)
	}
}

func TestPartialProjections(t *testing.T) {
	m := randomMesh(t, 4, 3)

	atoms, err := NewPartial(m)
	require.NoError(t, err)
	require.Equal(t, 3, atoms.NumChannels())

	xyz, err := NewPartial(m, WithXYZProjection())
	require.NoError(t, err)
	require.Equal(t, 9, xyz.NumChannels())

	z, err := NewPartial(m, WithDirection([3]float64{0, 0, 2}))
	require.NoError(t, err)
	require.Equal(t, 3, z.NumChannels())

	for _, p := range []*PartialDos{atoms, xyz, z} {
		require.NoError(t, p.Run())
	}
	_, pa, _ := atoms.PDOS()
	_, px, _ := xyz.PDOS()
	_, pz, _ := z.PDOS()

	for i := 0; i < 3; i++ {
		// Projecting on ẑ picks the z component of the atom.
		testutil.RequireSliceNearlyEqual(t, pz[i], px[3*i+2], 1e-12)
		sums, err := SumChannels(px, [][]int{{3 * i, 3*i + 1, 3*i + 2}})
		require.NoError(t, err)
		testutil.RequireSliceNearlyEqual(t, sums[0], pa[i], 1e-12)
	}
}

func TestProjectDirectionNormalises(t *testing.T) {
	vecs := [][][]complex128{{
		{complex(0.6, 0)}, {complex(0, 0.8)}, {0},
	}}
	p, err := ProjectDirection(vecs, [3]float64{3, 0, 0})
	require.NoError(t, err)
	require.InDelta(t, 0.36, p[0][0][0], 1e-12)

	p, err = ProjectDirection(vecs, [3]float64{1, 1, 0})
	require.NoError(t, err)
	// |0.6 + 0.8i|² / 2
	require.InDelta(t, 0.5, p[0][0][0], 1e-12)

	_, err = ProjectDirection(vecs, [3]float64{})
	require.ErrorIs(t, err, ErrInvalidDirection)
}

func TestPartialTetrahedronMatchesTotal(t *testing.T) {
	m, err := mesh.Sample(newTwoAtomModel(), [3]int{4, 4, 4}, cubic, mesh.WithTimeReversal())
	require.NoError(t, err)

	total, err := NewTotal(m, WithTetrahedronMethod())
	require.NoError(t, err)
	require.NoError(t, total.Run())
	_, want, _ := total.DOS()

	stream, err := NewPartial(m, WithTetrahedronMethod())
	require.NoError(t, err)
	require.NoError(t, stream.Run())
	_, ps, _ := stream.PDOS()
	require.Len(t, ps, 2)
	testutil.RequireSliceNearlyEqual(t, channelSum(ps), want, 1e-10)

	bulk, err := NewPartial(m, WithTetrahedronMethod(), WithBulkTetrahedron(), WithWorkers(3))
	require.NoError(t, err)
	require.NoError(t, bulk.Run())
	_, pb, _ := bulk.PDOS()
	for c := range ps {
		testutil.RequireSliceNearlyEqual(t, pb[c], ps[c], 1e-10)
	}
}

func TestPartialSmearingApproachesTetrahedron(t *testing.T) {
	m, err := mesh.Sample(newTwoAtomModel(), [3]int{8, 8, 8}, cubic, mesh.WithTimeReversal())
	require.NoError(t, err)

	fine := WithFrequencyRange(nil, nil, ptr(0.005))
	smeared, err := NewPartial(m, WithSigma(0.05), fine, WithBinnedSmearing(4))
	require.NoError(t, err)
	require.NoError(t, smeared.Run())
	points, ps, _ := smeared.PDOS()

	tet, err := NewPartial(m, WithSigma(0.05), fine, WithTetrahedronMethod())
	require.NoError(t, err)
	require.NoError(t, tet.Run())
	_, pt, _ := tet.PDOS()

	for c := range ps {
		// Both integrate to the share of the modes on channel c.
		require.InDelta(t, testutil.Trapezoid(points, pt[c]), testutil.Trapezoid(points, ps[c]), 0.05)
	}
}

func TestNewPartialErrors(t *testing.T) {
	plain, err := mesh.New([][]float64{{1, 2, 3}}, []float64{1})
	require.NoError(t, err)
	_, err = NewPartial(plain)
	require.ErrorIs(t, err, ErrNoEigenvectors)

	m := randomMesh(t, 2, 1)
	_, err = NewPartial(m, WithDirection([3]float64{}))
	require.ErrorIs(t, err, ErrInvalidDirection)

	_, err = NewPartial(m, WithTetrahedronMethod())
	require.ErrorIs(t, err, ErrTetrahedronUnavailable)

	p, err := NewPartial(m)
	require.NoError(t, err)
	_, _, err = p.PDOS()
	require.ErrorIs(t, err, ErrNotComputed)
	_, err = p.WriteTo(&bytes.Buffer{})
	require.ErrorIs(t, err, ErrNotComputed)
}

func TestPartialWriteToAndRange(t *testing.T) {
	p, err := NewPartial(randomMesh(t, 3, 2), WithSigma(0.3))
	require.NoError(t, err)
	require.NoError(t, p.SetFrequencyRange(ptr(1), ptr(2), ptr(0.5)))
	require.Equal(t, StateGridReady, p.State())
	require.NoError(t, p.Run())
	require.Equal(t, StateComputed, p.State())

	var buf bytes.Buffer
	_, err = p.WriteTo(&buf)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, "# Sigma = 0.300000", lines[0])
	require.Len(t, lines, 4)
	for _, l := range lines[1:] {
		require.Len(t, l, 60)
	}

	require.NoError(t, p.SetFrequencyRange(nil, nil, nil))
	_, _, err = p.PDOS()
	require.ErrorIs(t, err, ErrNotComputed)
}
