// Package tetrahedron implements the linear tetrahedron method for Brillouin-zone
// integration on a regular reciprocal-space mesh.
//
// Every mesh cell is split into six tetrahedra along its shortest main diagonal.
// Band frequencies are interpolated linearly inside each tetrahedron, which makes
// the density of states an exact piecewise polynomial of the vertex frequencies.
// The weight a grid point receives at frequency ω is the sum of its corner
// contributions over the 24 tetrahedra sharing it, divided by six.
//
// The package has three layers:
//
//   - [RelativeGridAddress]: the 24×4 vertex offsets around a grid point.
//   - [IntegrationWeight]: the per-grid-point weight for one band at one frequency.
//   - [Integrator]: per-grid-point weight tensors ([Integrator.Stream]) and bulk
//     coefficient-weighted sums ([Integrator.Integrate]) over a whole mesh.
//
// Two integrands are supported: [FunctionDelta] yields the density of states and
// [FunctionStep] the integrated density of states (number of states below ω).
package tetrahedron
