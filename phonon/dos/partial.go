package dos

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

// PartialDos computes the density of states projected onto atoms or
// Cartesian components.
//
// A PartialDos is not safe for concurrent use. Several engines may share one
// mesh.
type PartialDos struct {
	*engine
	coef     Projection
	channels int
	pdos     [][]float64
}

// NewPartial builds the frequency grid, the integration mode and the
// projection coefficients for m.
func NewPartial(m EigenvectorMesh, opts ...Option) (*PartialDos, error) {
	e, err := newEngine(m, opts)
	if err != nil {
		return nil, err
	}
	vecs := m.Eigenvectors()
	if vecs == nil {
		return nil, ErrNoEigenvectors
	}

	var coef Projection
	switch {
	case e.cfg.xyz:
		coef, err = ProjectXYZ(vecs)
	case e.cfg.direction != nil:
		coef, err = ProjectDirection(vecs, *e.cfg.direction)
	default:
		coef, err = ProjectAtoms(vecs)
	}
	if err != nil {
		return nil, err
	}
	if len(coef) != len(e.freqs) {
		return nil, fmt.Errorf("%w: %d eigenvector sets for %d grid points", ErrShapeMismatch, len(coef), len(e.freqs))
	}
	for g, rows := range coef {
		if len(rows) != coef.NumChannels() || len(rows[0]) != len(e.freqs[g]) {
			return nil, fmt.Errorf("%w: eigenvectors of grid point %d do not match its %d bands",
				ErrShapeMismatch, g, len(e.freqs[g]))
		}
	}

	return &PartialDos{engine: e, coef: coef, channels: coef.NumChannels()}, nil
}

// NumChannels returns the number of partial DOS channels: atoms, or 3·atoms
// with WithXYZProjection.
func (p *PartialDos) NumChannels() int { return p.channels }

// Projection returns the projection coefficients.
func (p *PartialDos) Projection() Projection { return p.coef }

// Run computes the partial density of states of every channel, replacing any
// earlier result.
//
// With smearing, pdos[c](f) = Σ_g (w_g/Σw) Σ_b coef[g][c][b]·K(ω_gb - f). With
// the tetrahedron method, pdos[c](f) = Σ_g w_g Σ_b I_gb(f)·coef[g][c][b] / N,
// accumulated one grid point at a time.
func (p *PartialDos) Run() error {
	p.pdos = nil
	points := p.grid.Points

	switch m := p.mode.(type) {
	case Tetrahedron:
		if p.cfg.bulk {
			out, err := m.Integrator.Integrate(points, p.coef, tetrahedron.FunctionDelta)
			if err != nil {
				return err
			}
			pdos := newMatrix(p.channels, len(points))
			for j := range out {
				for c := range pdos {
					pdos[c][j] = out[j][c]
				}
			}
			p.pdos = pdos
		} else {
			p.pdos = p.stream(m.Integrator, points)
		}
	case Smearing:
		norm := 1 / p.totalWeight()
		s := flatten(p.freqs, p.channels, func(g, c, b int) float64 {
			return p.weights[g] * norm * p.coef[g][c][b]
		})
		out, err := smear(m, points, p.grid.Pitch, s)
		if err != nil {
			return err
		}
		p.pdos = out
	}

	p.state = StateComputed
	return nil
}

func (p *PartialDos) stream(in *tetrahedron.Integrator, points []float64) [][]float64 {
	pdos := newMatrix(p.channels, len(points))
	tmp := make([]float64, len(points))
	for i, iw := range in.Stream(points, tetrahedron.FunctionDelta) {
		w := in.Weight(i)
		for c := range pdos {
			for b, row := range iw {
				a := w * p.coef[i][c][b]
				if a == 0 {
					continue
				}
				vecmath.ScaleBlock(tmp, row, a)
				vecmath.AddBlockInPlace(pdos[c], tmp)
			}
		}
	}
	return pdos
}

// PDOS returns the frequency grid and the partial density of states indexed
// [channel][point].
func (p *PartialDos) PDOS() (points []float64, values [][]float64, err error) {
	if p.pdos == nil {
		return nil, nil, ErrNotComputed
	}
	return p.grid.Points, p.pdos, nil
}

// SetFrequencyRange rebuilds the frequency grid with the given overrides,
// nil keeping the default, and discards any result.
func (p *PartialDos) SetFrequencyRange(fmin, fmax, pitch *float64) error {
	if err := p.buildGrid(fmin, fmax, pitch); err != nil {
		return err
	}
	p.pdos = nil
	p.state = StateGridReady
	return nil
}

// WriteTo writes the table of WritePartial, headed by the smearing width or
// "Tetrahedron method".
func (p *PartialDos) WriteTo(w io.Writer) (int64, error) {
	if p.pdos == nil {
		return 0, ErrNotComputed
	}
	var buf bytes.Buffer
	if err := WritePartial(&buf, p.grid.Points, p.pdos, p.Comment()); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// Projection holds squared eigenvector amplitudes indexed
// [grid point][channel][band].
type Projection [][][]float64

// NumChannels returns the number of channels, or 0 for an empty projection.
func (p Projection) NumChannels() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// ProjectAtoms sums |e|² over the three axes of every atom. For normalised
// eigenvectors the channels of a band add up to one.
func ProjectAtoms(vecs [][][]complex128) (Projection, error) {
	return project(vecs, false, func(e []complex128) float64 {
		return sqAbs(e[0]) + sqAbs(e[1]) + sqAbs(e[2])
	})
}

// ProjectXYZ keeps |e|² of every component as its own channel, ordered
// atom-major (x, y, z of atom 1, then atom 2, ...).
func ProjectXYZ(vecs [][][]complex128) (Projection, error) {
	return project(vecs, true, nil)
}

// ProjectDirection takes |e·d̂|² per atom, d̂ being direction normalised.
func ProjectDirection(vecs [][][]complex128, direction [3]float64) (Projection, error) {
	norm := math.Sqrt(direction[0]*direction[0] + direction[1]*direction[1] + direction[2]*direction[2])
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirection, direction)
	}
	d := [3]float64{direction[0] / norm, direction[1] / norm, direction[2] / norm}
	return project(vecs, false, func(e []complex128) float64 {
		return sqAbs(e[0]*complex(d[0], 0) + e[1]*complex(d[1], 0) + e[2]*complex(d[2], 0))
	})
}

// project evaluates atom(e) on the three components of every atom, or keeps
// every component when perComponent is set.
func project(vecs [][][]complex128, perComponent bool, atom func(e []complex128) float64) (Projection, error) {
	out := make(Projection, len(vecs))
	e := make([]complex128, 3)
	for g, m := range vecs {
		if len(m) == 0 || len(m)%3 != 0 {
			return nil, fmt.Errorf("%w: grid point %d has %d eigenvector components", ErrShapeMismatch, g, len(m))
		}
		bands := len(m[0])
		for i, row := range m {
			if len(row) != bands {
				return nil, fmt.Errorf("%w: grid point %d component %d has %d bands, want %d",
					ErrShapeMismatch, g, i, len(row), bands)
			}
		}
		channels := len(m) / 3
		if perComponent {
			channels = len(m)
		}
		out[g] = newMatrix(channels, bands)
		for b := 0; b < bands; b++ {
			if perComponent {
				for i := range m {
					out[g][i][b] = sqAbs(m[i][b])
				}
				continue
			}
			for i := 0; i < channels; i++ {
				e[0], e[1], e[2] = m[3*i][b], m[3*i+1][b], m[3*i+2][b]
				out[g][i][b] = atom(e)
			}
		}
	}
	return out, nil
}

func sqAbs(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}
