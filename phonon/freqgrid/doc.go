// Package freqgrid builds the uniform frequency abscissa on which densities of
// states are sampled.
//
// By default the grid spans the data range extended by a margin of
// DefaultMarginFactor·σ on both sides, where σ defaults to the data range
// divided by DefaultSigmaDivisor. The pitch defaults to the margined range
// divided by DefaultPitchDivisor. The upper end point is included when it lies
// within EndpointTolerance·pitch of the last step.
//
//	g, err := freqgrid.Build(freqs, freqgrid.WithSigma(0.1))
//	for _, f := range g.Points { ... }
package freqgrid
