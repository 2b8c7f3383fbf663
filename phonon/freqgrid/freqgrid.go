package freqgrid

import (
	"fmt"
	"math"
)

const (
	// DefaultSigmaDivisor sets the default smearing width to range/DefaultSigmaDivisor.
	DefaultSigmaDivisor = 100.0
	// DefaultMarginFactor is the margin, in units of sigma, added on each side.
	DefaultMarginFactor = 10.0
	// DefaultPitchDivisor sets the default pitch to margined range/DefaultPitchDivisor.
	DefaultPitchDivisor = 200.0
	// EndpointTolerance is the fraction of a pitch by which the upper bound is
	// extended so rounding does not drop the last point.
	EndpointTolerance = 0.1
)

// Grid is an ascending, evenly spaced set of frequency points.
type Grid struct {
	Points []float64
	Min    float64
	Max    float64
	Pitch  float64
	// Sigma is the smearing width the grid was built with, defaulted when unset.
	Sigma float64
}

// Len returns the number of points.
func (g Grid) Len() int { return len(g.Points) }

// Option configures grid construction.
type Option func(*config)

type config struct {
	sigma *float64
	min   *float64
	max   *float64
	pitch *float64
}

// WithSigma fixes the smearing width used for the default margins.
func WithSigma(sigma float64) Option {
	return func(c *config) { c.sigma = &sigma }
}

// WithMin overrides the lower end of the grid.
func WithMin(f float64) Option {
	return func(c *config) { c.min = &f }
}

// WithMax overrides the upper end of the grid.
func WithMax(f float64) Option {
	return func(c *config) { c.max = &f }
}

// WithPitch overrides the spacing between points.
func WithPitch(pitch float64) Option {
	return func(c *config) { c.pitch = &pitch }
}

// WithRange applies the non-nil overrides among lo, hi and pitch.
func WithRange(lo, hi, pitch *float64) Option {
	return func(c *config) {
		if lo != nil {
			c.min = lo
		}
		if hi != nil {
			c.max = hi
		}
		if pitch != nil {
			c.pitch = pitch
		}
	}
}

// Build derives the sampling grid from a frequency matrix.
func Build(freqs [][]float64, opts ...Option) (Grid, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	fMin, fMax, ok := extent(freqs)
	if !ok {
		return Grid{}, ErrEmptyFrequencies
	}

	sigma := (fMax - fMin) / DefaultSigmaDivisor
	if cfg.sigma != nil {
		sigma = *cfg.sigma
	}
	if err := validateSigma(sigma); err != nil {
		return Grid{}, err
	}

	if cfg.min != nil {
		fMin = *cfg.min
	} else {
		fMin -= DefaultMarginFactor * sigma
	}
	if cfg.max != nil {
		fMax = *cfg.max
	} else {
		fMax += DefaultMarginFactor * sigma
	}
	if fMax < fMin {
		return Grid{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, fMin, fMax)
	}

	pitch := (fMax - fMin) / DefaultPitchDivisor
	if cfg.pitch != nil {
		pitch = *cfg.pitch
	}
	if err := validatePitch(pitch); err != nil {
		return Grid{}, err
	}

	return Grid{
		Points: Arange(fMin, fMax+pitch*EndpointTolerance, pitch),
		Min:    fMin,
		Max:    fMax,
		Pitch:  pitch,
		Sigma:  sigma,
	}, nil
}

// Arange returns start, start+step, ... for all values strictly below stop.
func Arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func extent(freqs [][]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range freqs {
		for _, f := range row {
			lo = math.Min(lo, f)
			hi = math.Max(hi, f)
			ok = true
		}
	}
	return lo, hi, ok
}
