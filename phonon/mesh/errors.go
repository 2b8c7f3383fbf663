package mesh

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmpty            = errors.New("mesh: no grid points")
	ErrShapeMismatch    = errors.New("mesh: inconsistent array shapes")
	ErrInvalidWeight    = errors.New("mesh: weights must be finite and >= 0")
	ErrEigenvectorShape = errors.New("mesh: eigenvector shape mismatch")
	ErrInvalidModel     = errors.New("mesh: invalid model parameters")
	ErrMalformed        = errors.New("mesh: malformed document")
)

func validateWeight(i int, w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: weight[%d] = %v", ErrInvalidWeight, i, w)
	}
	return nil
}
