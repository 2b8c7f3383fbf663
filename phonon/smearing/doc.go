// Package smearing provides the broadening kernels used to turn discrete phonon
// frequencies into a continuous density of states.
//
// Two kernels are available:
//
//   - [Normal]: Gaussian, exp(-x²/(2σ²)) / (σ√(2π))
//   - [Cauchy]: Lorentzian, γ / (π(x² + γ²))
//
// Both integrate to one over the real line. Kernels are evaluated on offsets
// x = f_sample - f_point, either one at a time with Calc or in blocks with CalcTo.
//
// # Usage
//
//	k, err := smearing.New(smearing.FunctionNormal, 0.1)
//	density := k.Calc(0.05)
//
// Selecting the kernel by name (e.g. from a command line):
//
//	fn, err := smearing.ParseFunction("cauchy")
package smearing
