package dos

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-phonon/internal/testutil"
	"github.com/cwbudde/algo-phonon/phonon/mesh"
)

var cubic = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

var simpleCubic = mesh.SimpleCubic{Longitudinal: 1, Transverse: 0.25, Mass: 1}

func sampleCubic(t testing.TB, n int, opts ...mesh.SampleOption) *mesh.Samples {
	t.Helper()
	s, err := mesh.Sample(simpleCubic, [3]int{n, n, n}, cubic, opts...)
	require.NoError(t, err)
	return s
}

// twoAtomModel doubles the simple cubic branches into an acoustic and an
// optical set and mixes them with a fixed unitary matrix.
type twoAtomModel struct {
	mix [][]complex128
}

func newTwoAtomModel() twoAtomModel {
	return twoAtomModel{mix: testutil.RandomEigenvectors(7, 6)}
}

func (twoAtomModel) NumAtoms() int { return 2 }

func (m twoAtomModel) Solve(q [3]float64) ([]float64, [][]complex128, error) {
	f, _, err := simpleCubic.Solve(q)
	if err != nil {
		return nil, nil, err
	}
	freqs := slices.Clone(f)
	for _, v := range f {
		freqs = append(freqs, 1.5*v+0.3)
	}
	return freqs, m.mix, nil
}

// rawMesh is a Mesh without topology or eigenvectors checks.
type rawMesh struct {
	freqs   [][]float64
	weights []float64
}

func (m rawMesh) Frequencies() [][]float64 { return m.freqs }
func (m rawMesh) Weights() []float64       { return m.weights }

// randomMesh has random frequencies and eigenvectors for numAtoms atoms.
func randomMesh(t testing.TB, rows, numAtoms int) *mesh.Samples {
	t.Helper()
	dim := 3 * numAtoms
	freqs := testutil.DeterministicFrequencies(3, rows, dim, 0.5, 6)
	weights := make([]float64, rows)
	vecs := make([][][]complex128, rows)
	for g := range weights {
		weights[g] = float64(1 + g%3)
		vecs[g] = testutil.RandomEigenvectors(int64(11+g), dim)
	}
	s, err := mesh.New(freqs, weights, mesh.WithEigenvectors(vecs))
	require.NoError(t, err)
	return s
}

func ptr(v float64) *float64 { return &v }
