package dos

import "github.com/cwbudde/algo-phonon/phonon/tetrahedron"

// Mesh supplies band frequencies indexed [grid point][band] and one weight per
// grid point.
type Mesh interface {
	Frequencies() [][]float64
	Weights() []float64
}

// TetrahedronMesh is a Mesh that also knows its grid topology. Frequency rows
// follow the irreducible grid points of the topology in ascending order.
type TetrahedronMesh interface {
	Mesh
	Topology() (tetrahedron.Topology, bool)
}

// EigenvectorMesh is a Mesh that also carries eigenvectors indexed
// [grid point][3·atom + axis][band].
type EigenvectorMesh interface {
	Mesh
	Eigenvectors() [][][]complex128
}
