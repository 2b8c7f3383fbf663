package dos

import "github.com/cwbudde/algo-phonon/phonon/smearing"

// Option configures NewTotal and NewPartial.
type Option func(*config)

type config struct {
	sigma       *float64
	function    smearing.Function
	tetrahedron bool
	fmin        *float64
	fmax        *float64
	fpitch      *float64
	oversample  int
	workers     int
	bulk        bool

	xyz       bool
	direction *[3]float64
}

func defaultConfig() config {
	return config{function: smearing.FunctionNormal}
}

// WithSigma sets the smearing width. Without it the width defaults to
// (max - min)/100 of the frequencies. In tetrahedron mode it only sets the
// margin of the default frequency grid.
func WithSigma(sigma float64) Option {
	return func(c *config) { c.sigma = &sigma }
}

// WithSmearingFunction selects the smearing kernel. The default is
// smearing.FunctionNormal.
func WithSmearingFunction(fn smearing.Function) Option {
	return func(c *config) { c.function = fn }
}

// WithTetrahedronMethod integrates with the linear tetrahedron method instead
// of smearing. The mesh must implement TetrahedronMesh.
//
// The mode is fixed once chosen: an explicit WithSigma does not switch back to
// smearing, it only widens the margins of the default frequency grid. Leave
// this option out to smear with a given width.
func WithTetrahedronMethod() Option {
	return func(c *config) { c.tetrahedron = true }
}

// WithFrequencyRange overrides the lower end, upper end and pitch of the
// frequency grid. Nil arguments keep their defaults.
func WithFrequencyRange(fmin, fmax, pitch *float64) Option {
	return func(c *config) {
		c.fmin, c.fmax, c.fpitch = fmin, fmax, pitch
	}
}

// WithBinnedSmearing bins the weighted frequencies onto a grid oversample
// times finer than the frequency grid and convolves the histogram with the
// sampled kernel by FFT. This is faster than the direct sum for large meshes.
func WithBinnedSmearing(oversample int) Option {
	return func(c *config) { c.oversample = oversample }
}

// WithWorkers sets the number of goroutines of the bulk tetrahedron
// integration. Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithBulkTetrahedron makes the partial DOS use the parallel bulk integration
// instead of streaming one grid point at a time. It holds all projection
// coefficients and per-worker accumulators in memory at once.
func WithBulkTetrahedron() Option {
	return func(c *config) { c.bulk = true }
}

// WithXYZProjection keeps the three Cartesian components of every atom as
// separate partial DOS channels. Ignored by NewTotal.
func WithXYZProjection() Option {
	return func(c *config) { c.xyz = true }
}

// WithDirection projects the eigenvectors of every atom onto direction
// (normalised internally) instead of summing over all axes. Ignored by
// NewTotal and by WithXYZProjection.
func WithDirection(direction [3]float64) Option {
	return func(c *config) { c.direction = &direction }
}
