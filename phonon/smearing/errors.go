package smearing

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidWidth is returned when a kernel width is not a positive finite number.
	ErrInvalidWidth = errors.New("smearing: width must be > 0 and finite")

	// ErrUnknownFunction is returned by ParseFunction for unrecognised names.
	ErrUnknownFunction = errors.New("smearing: unknown function")
)

func validateWidth(width float64) error {
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWidth, width)
	}
	return nil
}
