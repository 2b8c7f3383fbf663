package dos

import (
	"fmt"
	"math"
)

// DefaultDebyeFitFraction is the share of the frequency grid, from its low
// end, that FitDebye uses without WithFitMaxFrequency.
const DefaultDebyeFitFraction = 0.25

// DebyeFit is the result of fitting dos(f) = a·f².
type DebyeFit struct {
	// Coefficient is a.
	Coefficient float64
	// Frequency is the Debye frequency (9·N_atoms/a)^(1/3).
	Frequency float64
	// NumPoints is the number of grid points the fit used.
	NumPoints int
}

// Curve samples a·f² from 0 to the Debye frequency roughly every pitch and
// closes the curve with a drop to zero at the Debye frequency.
func (d DebyeFit) Curve(pitch float64) (freqs, values []float64) {
	n := 0
	if pitch > 0 {
		n = int(d.Frequency / pitch)
	}
	freqs = make([]float64, n+2)
	values = make([]float64, n+2)
	for i := 0; i <= n; i++ {
		f := 0.0
		if n > 0 {
			f = d.Frequency * float64(i) / float64(n)
		}
		freqs[i] = f
		values[i] = d.Coefficient * f * f
	}
	freqs[n+1] = d.Frequency
	return freqs, values
}

// FitOption configures FitDebye.
type FitOption func(*fitConfig)

type fitConfig struct {
	maxFrequency *float64
}

// WithFitMaxFrequency fits over floor(fmax/(max - min)·len) points instead
// of the lowest quarter, min and max being the ends of the frequency grid.
func WithFitMaxFrequency(fmax float64) FitOption {
	return func(c *fitConfig) { c.maxFrequency = &fmax }
}

// FitDebye fits values = a·points² by least squares over the lowest grid
// points and returns a with the Debye frequency (9·numAtoms/a)^(1/3).
//
// The fit fails with a *FitError when fewer than two points fall in the fit
// range or a is not a positive finite number.
func FitDebye(points, values []float64, numAtoms int, opts ...FitOption) (DebyeFit, error) {
	cfg := fitConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(points) != len(values) {
		return DebyeFit{}, fmt.Errorf("%w: %d points, %d values", ErrShapeMismatch, len(points), len(values))
	}

	n := len(points)
	nFit := int(float64(n) * DefaultDebyeFitFraction)
	if cfg.maxFrequency != nil && n > 0 {
		span := points[n-1] - points[0]
		nFit = 0
		if span > 0 {
			nFit = int(*cfg.maxFrequency / span * float64(n))
		}
	}
	nFit = min(max(nFit, 0), n)

	if nFit < 2 {
		return DebyeFit{}, &FitError{Reason: "need at least 2 points", NumPoints: nFit}
	}
	if numAtoms <= 0 {
		return DebyeFit{}, &FitError{Reason: fmt.Sprintf("number of atoms %d must be > 0", numAtoms), NumPoints: nFit}
	}

	// d/da Σ (a·f² - y)² = 0  =>  a = Σ f²·y / Σ f⁴
	var f4, f2y float64
	for i := 0; i < nFit; i++ {
		f2 := points[i] * points[i]
		f4 += f2 * f2
		f2y += f2 * values[i]
	}
	if f4 == 0 {
		return DebyeFit{}, &FitError{Reason: "all fit frequencies are zero", NumPoints: nFit}
	}
	a := f2y / f4
	if !(a > 0) || math.IsInf(a, 0) {
		return DebyeFit{}, &FitError{Reason: fmt.Sprintf("coefficient %v is not positive", a), NumPoints: nFit}
	}

	return DebyeFit{
		Coefficient: a,
		Frequency:   math.Cbrt(9 * float64(numAtoms) / a),
		NumPoints:   nFit,
	}, nil
}
