package tetrahedron

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMesh is returned for non-positive mesh numbers.
	ErrInvalidMesh = errors.New("tetrahedron: mesh numbers must be > 0")

	// ErrTopologyMismatch is returned when grid addresses, the mapping table and
	// the frequency rows do not describe the same mesh.
	ErrTopologyMismatch = errors.New("tetrahedron: inconsistent grid topology")

	// ErrCoefficientShape is returned when a coefficient tensor does not match
	// the irreducible grid points and bands.
	ErrCoefficientShape = errors.New("tetrahedron: coefficient shape mismatch")
)

func validateMesh(mesh [3]int) error {
	for i, m := range mesh {
		if m <= 0 {
			return fmt.Errorf("%w: mesh[%d] = %d", ErrInvalidMesh, i, m)
		}
	}
	return nil
}
