package tetrahedron

import (
	"fmt"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Option configures an Integrator.
type Option func(*config)

type config struct {
	workers int
	weights []float64
}

// WithWorkers sets how many goroutines Integrate fans out to.
// Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithWeights replaces the grid-point multiplicities derived from the mapping
// table by explicit weights, one per irreducible grid point.
func WithWeights(w []float64) Option {
	return func(c *config) { c.weights = w }
}

// Integrator evaluates tetrahedron integration weights over a mesh.
//
// Frequency rows are indexed by irreducible grid point in ascending grid-point
// order, as returned by [Topology.IrreducibleGridPoints]. An Integrator is
// read-only after construction and may be shared between goroutines.
type Integrator struct {
	numGrid  int
	numBands int
	freqs    [][]float64
	irPoints []int
	weights  []float64
	vertices [][24][4]int
	workers  int
}

// NewIntegrator prepares the tetrahedra of every irreducible grid point.
func NewIntegrator(top Topology, freqs [][]float64, opts ...Option) (*Integrator, error) {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := top.Validate(); err != nil {
		return nil, err
	}

	irPoints, multiplicity := top.IrreducibleGridPoints()
	if len(freqs) != len(irPoints) {
		return nil, fmt.Errorf("%w: %d frequency rows for %d irreducible grid points",
			ErrTopologyMismatch, len(freqs), len(irPoints))
	}
	numBands := 0
	if len(freqs) > 0 {
		numBands = len(freqs[0])
	}
	for i, row := range freqs {
		if len(row) != numBands {
			return nil, fmt.Errorf("%w: row %d has %d bands, want %d", ErrTopologyMismatch, i, len(row), numBands)
		}
	}

	weights := make([]float64, len(irPoints))
	if cfg.weights != nil {
		if len(cfg.weights) != len(irPoints) {
			return nil, fmt.Errorf("%w: %d weights for %d irreducible grid points",
				ErrTopologyMismatch, len(cfg.weights), len(irPoints))
		}
		copy(weights, cfg.weights)
	} else {
		for i, m := range multiplicity {
			weights[i] = float64(m)
		}
	}

	irIndex := make(map[int]int, len(irPoints))
	for i, gp := range irPoints {
		irIndex[gp] = i
	}
	gp2ir := make([]int, top.NumGridPoints())
	for gp, m := range top.GridMappingTable {
		gp2ir[gp] = irIndex[m]
	}

	rel := RelativeGridAddress(top.ReciprocalLattice, top.MeshNumbers)
	vertices := make([][24][4]int, len(irPoints))
	for i, gp := range irPoints {
		base := top.GridAddress[gp]
		for j := range rel {
			for k := range rel[j] {
				a := [3]int{
					base[0] + rel[j][k][0],
					base[1] + rel[j][k][1],
					base[2] + rel[j][k][2],
				}
				vertices[i][j][k] = gp2ir[GridIndex(a, top.MeshNumbers)]
			}
		}
	}

	workers := cfg.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Integrator{
		numGrid:  top.NumGridPoints(),
		numBands: numBands,
		freqs:    freqs,
		irPoints: irPoints,
		weights:  weights,
		vertices: vertices,
		workers:  workers,
	}, nil
}

// NumIrreducible returns the number of irreducible grid points.
func (in *Integrator) NumIrreducible() int { return len(in.irPoints) }

// NumBands returns the number of bands per grid point.
func (in *Integrator) NumBands() int { return in.numBands }

// NumGridPoints returns the number of grid points of the full mesh.
func (in *Integrator) NumGridPoints() int { return in.numGrid }

// Weight returns the weight of irreducible grid point i.
func (in *Integrator) Weight(i int) float64 { return in.weights[i] }

// TetrahedronOmegas fills dst with the frequencies of band at the vertices of
// the 24 tetrahedra around irreducible grid point i.
func (in *Integrator) TetrahedronOmegas(dst *[24][4]float64, i, band int) {
	for j := range in.vertices[i] {
		for k, v := range in.vertices[i][j] {
			dst[j][k] = in.freqs[v][band]
		}
	}
}

// Stream returns the integration weights of each irreducible grid point in
// turn, indexed [band][point] and divided by the number of grid points of the
// mesh. Grid-point weights are not applied.
//
// The sequence can be ranged over any number of times. The yielded tensor is
// reused between iterations and must not be retained.
func (in *Integrator) Stream(points []float64, fn Function) iter.Seq2[int, [][]float64] {
	return func(yield func(int, [][]float64) bool) {
		iw := make([][]float64, in.numBands)
		for b := range iw {
			iw[b] = make([]float64, len(points))
		}
		norm := 1 / float64(in.numGrid)

		var omegas [24][4]float64
		for i := range in.irPoints {
			for b := 0; b < in.numBands; b++ {
				in.TetrahedronOmegas(&omegas, i, b)
				for j, f := range points {
					iw[b][j] = IntegrationWeight(f, &omegas, fn) * norm
				}
			}
			if !yield(i, iw) {
				return
			}
		}
	}
}

// Integrate returns Σ_g Σ_b w_g·iw[g,b,f]·coef[g][c][b] / N indexed [point][c],
// where N is the number of grid points of the mesh.
//
// coef is indexed [irreducible grid point][channel][band]. A nil coef is
// equivalent to a single channel of ones, giving the total density of states.
// Work is spread over the configured number of goroutines.
func (in *Integrator) Integrate(points []float64, coef [][][]float64, fn Function) ([][]float64, error) {
	channels, err := in.channels(coef)
	if err != nil {
		return nil, err
	}

	workers := min(in.workers, len(in.irPoints))
	if workers < 1 {
		workers = 1
	}
	partial := make([][][]float64, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			acc := newMatrix(len(points), channels)
			var omegas [24][4]float64
			for i := w; i < len(in.irPoints); i += workers {
				weight := in.weights[i]
				for b := 0; b < in.numBands; b++ {
					in.TetrahedronOmegas(&omegas, i, b)
					for j, f := range points {
						iw := IntegrationWeight(f, &omegas, fn) * weight
						if iw == 0 {
							continue
						}
						if coef == nil {
							acc[j][0] += iw
							continue
						}
						for c := range acc[j] {
							acc[j][c] += iw * coef[i][c][b]
						}
					}
				}
			}
			partial[w] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := newMatrix(len(points), channels)
	norm := 1 / float64(in.numGrid)
	for _, acc := range partial {
		for j := range out {
			for c := range out[j] {
				out[j][c] += acc[j][c]
			}
		}
	}
	for j := range out {
		for c := range out[j] {
			out[j][c] *= norm
		}
	}
	return out, nil
}

func (in *Integrator) channels(coef [][][]float64) (int, error) {
	if coef == nil {
		return 1, nil
	}
	if len(coef) != len(in.irPoints) {
		return 0, fmt.Errorf("%w: %d rows for %d irreducible grid points",
			ErrCoefficientShape, len(coef), len(in.irPoints))
	}
	channels := -1
	for i, rows := range coef {
		if channels < 0 {
			channels = len(rows)
		}
		if len(rows) != channels {
			return 0, fmt.Errorf("%w: grid point %d has %d channels, want %d",
				ErrCoefficientShape, i, len(rows), channels)
		}
		for c, row := range rows {
			if len(row) != in.numBands {
				return 0, fmt.Errorf("%w: grid point %d channel %d has %d bands, want %d",
					ErrCoefficientShape, i, c, len(row), in.numBands)
			}
		}
	}
	if channels <= 0 {
		return 0, fmt.Errorf("%w: no channels", ErrCoefficientShape)
	}
	return channels, nil
}

func newMatrix(rows, cols int) [][]float64 {
	data := make([]float64, rows*cols)
	out := make([][]float64, rows)
	for i := range out {
		out[i] = data[i*cols : (i+1)*cols]
	}
	return out
}
