package dos

import (
	"bytes"
	"io"

	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

// TotalDos computes the total density of states of a mesh.
//
// A TotalDos is not safe for concurrent use. Several engines may share one
// mesh.
type TotalDos struct {
	*engine
	dos   []float64
	debye *DebyeFit
}

// NewTotal builds the frequency grid and the integration mode for m.
func NewTotal(m Mesh, opts ...Option) (*TotalDos, error) {
	e, err := newEngine(m, opts)
	if err != nil {
		return nil, err
	}
	return &TotalDos{engine: e}, nil
}

// Run computes the density of states on the frequency grid, replacing any
// earlier result and Debye fit.
//
// With smearing, dos(f) = Σ_g w_g Σ_b K(ω_gb - f) / Σ_g w_g. With the
// tetrahedron method, dos(f) = Σ_g Σ_b w_g·I_gb(f) / N, N being the number of
// grid points of the full mesh.
func (t *TotalDos) Run() error {
	t.dos, t.debye = nil, nil
	points := t.grid.Points

	switch m := t.mode.(type) {
	case Tetrahedron:
		out, err := m.Integrator.Integrate(points, nil, tetrahedron.FunctionDelta)
		if err != nil {
			return err
		}
		t.dos = make([]float64, len(points))
		for j := range out {
			t.dos[j] = out[j][0]
		}
	case Smearing:
		norm := 1 / t.totalWeight()
		s := flatten(t.freqs, 1, func(g, _, _ int) float64 { return t.weights[g] * norm })
		out, err := smear(m, points, t.grid.Pitch, s)
		if err != nil {
			return err
		}
		t.dos = out[0]
	}

	t.state = StateComputed
	return nil
}

// DOS returns the frequency grid and the density of states.
func (t *TotalDos) DOS() (points, values []float64, err error) {
	if t.dos == nil {
		return nil, nil, ErrNotComputed
	}
	return t.grid.Points, t.dos, nil
}

// SetFrequencyRange rebuilds the frequency grid with the given overrides,
// nil keeping the default, and discards any result.
func (t *TotalDos) SetFrequencyRange(fmin, fmax, pitch *float64) error {
	if err := t.buildGrid(fmin, fmax, pitch); err != nil {
		return err
	}
	t.dos, t.debye = nil, nil
	t.state = StateGridReady
	return nil
}

// FitDebye fits a·f² to the low-frequency end of the computed density of
// states and derives the Debye frequency for numAtoms atoms per cell.
func (t *TotalDos) FitDebye(numAtoms int, opts ...FitOption) (DebyeFit, error) {
	if t.dos == nil {
		return DebyeFit{}, ErrNotComputed
	}
	fit, err := FitDebye(t.grid.Points, t.dos, numAtoms, opts...)
	if err != nil {
		return DebyeFit{}, err
	}
	t.debye = &fit
	t.state = StateFitApplied
	return fit, nil
}

// Debye returns the last Debye fit, if any.
func (t *TotalDos) Debye() (DebyeFit, bool) {
	if t.debye == nil {
		return DebyeFit{}, false
	}
	return *t.debye, true
}

// WriteTo writes the two-column table of WriteTotal, headed by the smearing
// width or "Tetrahedron method".
func (t *TotalDos) WriteTo(w io.Writer) (int64, error) {
	if t.dos == nil {
		return 0, ErrNotComputed
	}
	var buf bytes.Buffer
	if err := WriteTotal(&buf, t.grid.Points, t.dos, t.Comment()); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}
