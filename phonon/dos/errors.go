package dos

import (
	"errors"
	"fmt"
)

var (
	// ErrNotComputed is returned when results are read before Run.
	ErrNotComputed = errors.New("dos: not computed, call Run first")

	// ErrTetrahedronUnavailable is returned when the tetrahedron method is
	// requested for a mesh without topology.
	ErrTetrahedronUnavailable = errors.New("dos: tetrahedron method needs a mesh with grid topology")

	// ErrNoEigenvectors is returned when a partial DOS is requested for a mesh
	// without eigenvectors.
	ErrNoEigenvectors = errors.New("dos: mesh has no eigenvectors")

	// ErrInvalidDirection is returned for a zero projection direction.
	ErrInvalidDirection = errors.New("dos: projection direction must be non-zero")

	// ErrInvalidWeights is returned when the grid-point weights do not match the
	// frequency rows or sum to zero.
	ErrInvalidWeights = errors.New("dos: invalid grid-point weights")

	// ErrInvalidOversample is returned for a binned-smearing oversampling
	// factor below one.
	ErrInvalidOversample = errors.New("dos: oversampling factor must be >= 1")

	// ErrShapeMismatch is returned by the writers for misaligned columns.
	ErrShapeMismatch = errors.New("dos: column length mismatch")

	// ErrFitFailed is wrapped by every *FitError.
	ErrFitFailed = errors.New("dos: Debye fit failed")

	// ErrIndexOutOfRange and ErrNegativeIndex are wrapped by *IndexError.
	ErrIndexOutOfRange = errors.New("dos: channel index out of range")
	ErrNegativeIndex   = errors.New("dos: negative channel index")
)

// FitError reports why a Debye fit could not be made.
type FitError struct {
	Reason    string
	NumPoints int
}

func (e *FitError) Error() string {
	return fmt.Sprintf("dos: Debye fit failed over %d points: %s", e.NumPoints, e.Reason)
}

// Unwrap returns ErrFitFailed.
func (e *FitError) Unwrap() error { return ErrFitFailed }

// IndexError reports an invalid channel index in a grouping.
type IndexError struct {
	// Index is the offending index, counted from one.
	Index       int
	NumChannels int
	// Err is ErrIndexOutOfRange or ErrNegativeIndex.
	Err error
}

func (e *IndexError) Error() string {
	if errors.Is(e.Err, ErrNegativeIndex) {
		return fmt.Sprintf("dos: index number %d is specified, but it must be positive", e.Index)
	}
	return fmt.Sprintf("dos: index number %d is specified, but it is not allowed to be larger than the number of channels (%d)",
		e.Index, e.NumChannels)
}

func (e *IndexError) Unwrap() error { return e.Err }
