package dos

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-phonon/phonon/freqgrid"
	"github.com/cwbudde/algo-phonon/phonon/smearing"
	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

// engine holds what TotalDos and PartialDos share: the mesh data, the
// frequency grid and the integration mode.
type engine struct {
	cfg     config
	freqs   [][]float64
	weights []float64
	grid    freqgrid.Grid
	mode    Mode
	state   State
}

func newEngine(m Mesh, opts []Option) (*engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	e := &engine{
		cfg:     cfg,
		freqs:   m.Frequencies(),
		weights: m.Weights(),
	}
	if len(e.weights) != len(e.freqs) {
		return nil, fmt.Errorf("%w: %d weights for %d grid points", ErrInvalidWeights, len(e.weights), len(e.freqs))
	}

	if err := e.buildGrid(cfg.fmin, cfg.fmax, cfg.fpitch); err != nil {
		return nil, err
	}

	if cfg.tetrahedron {
		tm, ok := m.(TetrahedronMesh)
		if !ok {
			return nil, ErrTetrahedronUnavailable
		}
		top, ok := tm.Topology()
		if !ok {
			return nil, ErrTetrahedronUnavailable
		}
		in, err := tetrahedron.NewIntegrator(top, e.freqs,
			tetrahedron.WithWeights(e.weights),
			tetrahedron.WithWorkers(cfg.workers))
		if err != nil {
			return nil, err
		}
		e.mode = Tetrahedron{Integrator: in}
	} else {
		if vecmath.Sum(e.weights) <= 0 {
			return nil, fmt.Errorf("%w: weights sum to %v", ErrInvalidWeights, vecmath.Sum(e.weights))
		}
		if cfg.oversample < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidOversample, cfg.oversample)
		}
		k, err := smearing.New(cfg.function, e.grid.Sigma)
		if err != nil {
			return nil, err
		}
		e.mode = Smearing{Function: cfg.function, Kernel: k, Oversample: cfg.oversample}
	}

	e.state = StateGridReady
	return e, nil
}

func (e *engine) buildGrid(fmin, fmax, pitch *float64) error {
	opts := []freqgrid.Option{freqgrid.WithRange(fmin, fmax, pitch)}
	switch {
	case e.cfg.sigma != nil:
		opts = append(opts, freqgrid.WithSigma(*e.cfg.sigma))
	case e.grid.Sigma > 0:
		// Keep the width the kernel was built with.
		opts = append(opts, freqgrid.WithSigma(e.grid.Sigma))
	}
	grid, err := freqgrid.Build(e.freqs, opts...)
	if err != nil {
		return err
	}
	e.grid = grid
	return nil
}

// FrequencyPoints returns the frequency grid.
func (e *engine) FrequencyPoints() []float64 { return e.grid.Points }

// Sigma returns the smearing width, explicit or defaulted. In tetrahedron mode
// it is the width that set the grid margins.
func (e *engine) Sigma() float64 { return e.grid.Sigma }

// Mode returns the integration mode.
func (e *engine) Mode() Mode { return e.mode }

// State returns the lifecycle stage.
func (e *engine) State() State { return e.state }

// Comment returns the header line of the text tables: the smearing width, or
// "Tetrahedron method".
func (e *engine) Comment() string {
	if _, ok := e.mode.(Tetrahedron); ok {
		return "Tetrahedron method"
	}
	return fmt.Sprintf("Sigma = %f", e.grid.Sigma)
}

func (e *engine) totalWeight() float64 { return vecmath.Sum(e.weights) }

func newMatrix(rows, cols int) [][]float64 {
	data := make([]float64, rows*cols)
	out := make([][]float64, rows)
	for i := range out {
		out[i] = data[i*cols : (i+1)*cols]
	}
	return out
}
