package mesh

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

// Samples is a validated set of mesh samples. It is read-only after
// construction and may be shared between goroutines.
type Samples struct {
	freqs    [][]float64
	weights  []float64
	eigvecs  [][][]complex128
	topology *tetrahedron.Topology
}

// Option configures New.
type Option func(*Samples)

// WithEigenvectors attaches eigenvectors indexed [grid point][3·atom + axis][band].
func WithEigenvectors(e [][][]complex128) Option {
	return func(s *Samples) { s.eigvecs = e }
}

// WithTopology attaches the mesh topology. Frequency rows must then follow the
// irreducible grid points of the mapping table in ascending order.
func WithTopology(t tetrahedron.Topology) Option {
	return func(s *Samples) { s.topology = &t }
}

// New validates and wraps mesh samples. freqs is indexed [grid point][band];
// weights holds one weight per grid point.
func New(freqs [][]float64, weights []float64, opts ...Option) (*Samples, error) {
	s := &Samples{freqs: freqs, weights: weights}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the shapes of all arrays and, when a topology is attached,
// that it agrees with the frequency rows and weights.
func (s *Samples) Validate() error {
	if len(s.freqs) == 0 {
		return ErrEmpty
	}
	bands := len(s.freqs[0])
	if bands == 0 {
		return fmt.Errorf("%w: no bands", ErrShapeMismatch)
	}
	for g, row := range s.freqs {
		if len(row) != bands {
			return fmt.Errorf("%w: grid point %d has %d bands, want %d", ErrShapeMismatch, g, len(row), bands)
		}
	}
	if len(s.weights) != len(s.freqs) {
		return fmt.Errorf("%w: %d weights for %d grid points", ErrShapeMismatch, len(s.weights), len(s.freqs))
	}
	for g, w := range s.weights {
		if err := validateWeight(g, w); err != nil {
			return err
		}
	}

	if s.eigvecs != nil {
		if err := s.validateEigenvectors(bands); err != nil {
			return err
		}
	}
	if s.topology != nil {
		if err := s.validateTopology(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Samples) validateEigenvectors(bands int) error {
	if len(s.eigvecs) != len(s.freqs) {
		return fmt.Errorf("%w: %d matrices for %d grid points", ErrEigenvectorShape, len(s.eigvecs), len(s.freqs))
	}
	dim := len(s.eigvecs[0])
	if dim == 0 || dim%3 != 0 {
		return fmt.Errorf("%w: dimension %d is not a positive multiple of 3", ErrEigenvectorShape, dim)
	}
	for g, m := range s.eigvecs {
		if len(m) != dim {
			return fmt.Errorf("%w: grid point %d has %d components, want %d", ErrEigenvectorShape, g, len(m), dim)
		}
		for i, row := range m {
			if len(row) != bands {
				return fmt.Errorf("%w: grid point %d component %d has %d bands, want %d",
					ErrEigenvectorShape, g, i, len(row), bands)
			}
		}
	}
	return nil
}

func (s *Samples) validateTopology() error {
	if err := s.topology.Validate(); err != nil {
		return err
	}
	points, _ := s.topology.IrreducibleGridPoints()
	if len(points) != len(s.freqs) {
		return fmt.Errorf("%w: %d irreducible grid points for %d frequency rows",
			ErrShapeMismatch, len(points), len(s.freqs))
	}
	sum := 0.0
	for _, w := range s.weights {
		sum += w
	}
	n := float64(s.topology.NumGridPoints())
	if math.Abs(sum-n) > 1e-9*n {
		return fmt.Errorf("%w: weights sum to %v, mesh has %v grid points", ErrInvalidWeight, sum, n)
	}
	return nil
}

// Frequencies returns the band frequencies indexed [grid point][band].
func (s *Samples) Frequencies() [][]float64 { return s.freqs }

// Weights returns the grid-point weights.
func (s *Samples) Weights() []float64 { return s.weights }

// Eigenvectors returns the eigenvectors, or nil when none were attached.
func (s *Samples) Eigenvectors() [][][]complex128 { return s.eigvecs }

// Topology returns the mesh topology and whether one is attached.
func (s *Samples) Topology() (tetrahedron.Topology, bool) {
	if s.topology == nil {
		return tetrahedron.Topology{}, false
	}
	return *s.topology, true
}

// NumGridPoints returns the number of frequency rows.
func (s *Samples) NumGridPoints() int { return len(s.freqs) }

// NumBands returns the number of bands per grid point.
func (s *Samples) NumBands() int { return len(s.freqs[0]) }

// NumAtoms returns the number of atoms implied by the eigenvector dimension,
// or 0 without eigenvectors.
func (s *Samples) NumAtoms() int {
	if len(s.eigvecs) == 0 {
		return 0
	}
	return len(s.eigvecs[0]) / 3
}
