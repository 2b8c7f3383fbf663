package dos

import (
	"fmt"

	"github.com/cwbudde/algo-phonon/phonon/smearing"
	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

// Mode is the integration scheme of an engine, fixed at construction. It is
// either Smearing or Tetrahedron.
type Mode interface {
	fmt.Stringer
	mode()
}

// Smearing broadens every frequency with a kernel.
type Smearing struct {
	Function smearing.Function
	Kernel   smearing.Kernel
	// Oversample is the binning factor, or 0 for the direct sum.
	Oversample int
}

// Tetrahedron integrates with the linear tetrahedron method.
type Tetrahedron struct {
	Integrator *tetrahedron.Integrator
}

func (Smearing) mode()    {}
func (Tetrahedron) mode() {}

func (m Smearing) String() string {
	return fmt.Sprintf("%s smearing (width %g)", m.Function, m.Kernel.Width())
}

func (Tetrahedron) String() string { return "tetrahedron method" }

// State is the lifecycle stage of an engine.
type State int

const (
	StateUninitialized State = iota
	// StateGridReady: the frequency grid is built, no results yet.
	StateGridReady
	// StateComputed: Run has filled the results.
	StateComputed
	// StateFitApplied: a Debye fit has been made on the results.
	StateFitApplied
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateGridReady:
		return "grid ready"
	case StateComputed:
		return "computed"
	case StateFitApplied:
		return "fit applied"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
