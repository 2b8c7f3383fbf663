package smearing

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Function identifies a smearing kernel shape.
type Function int

const (
	FunctionNormal Function = iota
	FunctionCauchy
)

// String returns the canonical name of the function.
func (f Function) String() string {
	switch f {
	case FunctionNormal:
		return "Normal"
	case FunctionCauchy:
		return "Cauchy"
	default:
		return fmt.Sprintf("Function(%d)", int(f))
	}
}

// ParseFunction maps a case-insensitive name to a Function.
// "normal" and "gaussian" select FunctionNormal, "cauchy" and "lorentzian"
// select FunctionCauchy.
func ParseFunction(name string) (Function, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "normal", "gaussian", "gauss":
		return FunctionNormal, nil
	case "cauchy", "lorentzian", "lorentz":
		return FunctionCauchy, nil
	default:
		return FunctionNormal, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
}

// Kernel is a normalised broadening function.
type Kernel interface {
	// Calc returns the density contribution at offset x.
	Calc(x float64) float64
	// CalcTo writes Calc(x[i]) to dst[i]. dst and x must have equal length.
	CalcTo(dst, x []float64)
	// Width returns sigma (Normal) or gamma (Cauchy).
	Width() float64
}

// New returns the kernel for fn with the given width.
// Unknown functions fall back to Normal.
func New(fn Function, width float64) (Kernel, error) {
	if err := validateWidth(width); err != nil {
		return nil, err
	}
	if fn == FunctionCauchy {
		return NewCauchy(width), nil
	}
	return NewNormal(width), nil
}

// Normal is the Gaussian kernel exp(-x²/(2σ²)) / (σ√(2π)).
type Normal struct {
	sigma float64
	norm  float64
	inv2s float64
}

// NewNormal creates a Gaussian kernel. sigma must be > 0.
func NewNormal(sigma float64) *Normal {
	return &Normal{
		sigma: sigma,
		norm:  1 / (math.Sqrt(2*math.Pi) * sigma),
		inv2s: 1 / (2 * sigma * sigma),
	}
}

// Calc returns the Gaussian density at x.
func (k *Normal) Calc(x float64) float64 {
	return k.norm * math.Exp(-x*x*k.inv2s)
}

// CalcTo evaluates the Gaussian for every offset in x.
func (k *Normal) CalcTo(dst, x []float64) {
	if len(dst) != len(x) {
		panic("smearing: dst and x length mismatch")
	}
	vecmath.MulBlock(dst, x, x)
	for i, x2 := range dst {
		dst[i] = math.Exp(-x2 * k.inv2s)
	}
	vecmath.ScaleBlockInPlace(dst, k.norm)
}

// Width returns sigma.
func (k *Normal) Width() float64 { return k.sigma }

// Cauchy is the Lorentzian kernel γ / (π(x² + γ²)).
type Cauchy struct {
	gamma  float64
	gamma2 float64
}

// NewCauchy creates a Lorentzian kernel. gamma must be > 0.
func NewCauchy(gamma float64) *Cauchy {
	return &Cauchy{gamma: gamma, gamma2: gamma * gamma}
}

// Calc returns the Lorentzian density at x.
func (k *Cauchy) Calc(x float64) float64 {
	return k.gamma / math.Pi / (x*x + k.gamma2)
}

// CalcTo evaluates the Lorentzian for every offset in x.
func (k *Cauchy) CalcTo(dst, x []float64) {
	if len(dst) != len(x) {
		panic("smearing: dst and x length mismatch")
	}
	vecmath.MulBlock(dst, x, x)
	num := k.gamma / math.Pi
	for i, x2 := range dst {
		dst[i] = num / (x2 + k.gamma2)
	}
}

// Width returns gamma.
func (k *Cauchy) Width() float64 { return k.gamma }
