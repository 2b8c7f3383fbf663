package freqgrid

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyFrequencies = errors.New("freqgrid: frequencies must not be empty")
	ErrInvalidSigma     = errors.New("freqgrid: sigma must be > 0")
	ErrInvalidPitch     = errors.New("freqgrid: pitch must be > 0")
	ErrInvalidRange     = errors.New("freqgrid: max frequency must not be below min frequency")
)

func validateSigma(sigma float64) error {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}
	return nil
}

func validatePitch(pitch float64) error {
	if !(pitch > 0) || math.IsInf(pitch, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPitch, pitch)
	}
	return nil
}
