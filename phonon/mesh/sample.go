package mesh

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

// SampleOption configures Sample.
type SampleOption func(*sampleConfig)

type sampleConfig struct {
	timeReversal bool
	workers      int
}

// WithTimeReversal folds every grid point q onto -q, keeping the one with the
// lower grid index. Frequencies at q and -q coincide, so only the
// irreducible half of the mesh is evaluated.
func WithTimeReversal() SampleOption {
	return func(c *sampleConfig) { c.timeReversal = true }
}

// WithSampleWorkers limits how many grid points are solved concurrently.
// Values <= 0 select runtime.GOMAXPROCS(0).
func WithSampleWorkers(n int) SampleOption {
	return func(c *sampleConfig) { c.workers = n }
}

// Sample evaluates a model on a Γ-centred mesh and returns samples with
// eigenvectors and topology attached. recLattice holds the reciprocal basis
// vectors as columns.
func Sample(model Model, meshNumbers [3]int, recLattice [3][3]float64, opts ...SampleOption) (*Samples, error) {
	cfg := sampleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	top := tetrahedron.Topology{
		MeshNumbers:       meshNumbers,
		ReciprocalLattice: recLattice,
	}
	for i, n := range meshNumbers {
		if n <= 0 {
			return nil, fmt.Errorf("%w: mesh[%d] = %d", tetrahedron.ErrInvalidMesh, i, n)
		}
	}
	top.GridAddress = tetrahedron.GridAddresses(meshNumbers)
	top.GridMappingTable = make([]int, len(top.GridAddress))
	for gp, a := range top.GridAddress {
		top.GridMappingTable[gp] = gp
		if cfg.timeReversal {
			top.GridMappingTable[gp] = min(gp, tetrahedron.GridIndex([3]int{-a[0], -a[1], -a[2]}, meshNumbers))
		}
	}

	points, multiplicity := top.IrreducibleGridPoints()
	freqs := make([][]float64, len(points))
	vecs := make([][][]complex128, len(points))
	weights := make([]float64, len(points))

	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for i, gp := range points {
		weights[i] = float64(multiplicity[i])
		a := top.GridAddress[gp]
		q := [3]float64{
			float64(a[0]) / float64(meshNumbers[0]),
			float64(a[1]) / float64(meshNumbers[1]),
			float64(a[2]) / float64(meshNumbers[2]),
		}
		g.Go(func() error {
			f, e, err := model.Solve(q)
			if err != nil {
				return err
			}
			freqs[i], vecs[i] = f, e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(freqs, weights, WithEigenvectors(vecs), WithTopology(top))
}
