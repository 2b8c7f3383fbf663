package tetrahedron

import "fmt"

// Topology describes a regular reciprocal-space mesh.
//
// GridAddress[gp] holds the integer address of grid point gp, which must satisfy
// GridIndex(GridAddress[gp], MeshNumbers) == gp. GridMappingTable[gp] is the
// irreducible grid point gp is equivalent to; irreducible points map to
// themselves. ReciprocalLattice holds the reciprocal basis vectors as columns.
type Topology struct {
	MeshNumbers       [3]int
	GridAddress       [][3]int
	GridMappingTable  []int
	ReciprocalLattice [3][3]float64
}

// NumGridPoints returns the product of the mesh numbers.
func (t Topology) NumGridPoints() int {
	return t.MeshNumbers[0] * t.MeshNumbers[1] * t.MeshNumbers[2]
}

// IrreducibleGridPoints returns the grid points that map to themselves in
// ascending order, and the number of grid points mapping onto each of them.
func (t Topology) IrreducibleGridPoints() (points []int, multiplicity []int) {
	index := make(map[int]int)
	for gp, m := range t.GridMappingTable {
		if gp == m {
			index[gp] = len(points)
			points = append(points, gp)
			multiplicity = append(multiplicity, 0)
		}
	}
	for _, m := range t.GridMappingTable {
		if i, ok := index[m]; ok {
			multiplicity[i]++
		}
	}
	return points, multiplicity
}

// Validate checks that the addresses and the mapping table are consistent.
func (t Topology) Validate() error {
	if err := validateMesh(t.MeshNumbers); err != nil {
		return err
	}
	n := t.NumGridPoints()
	if len(t.GridAddress) != n {
		return fmt.Errorf("%w: %d grid addresses for %d grid points", ErrTopologyMismatch, len(t.GridAddress), n)
	}
	if len(t.GridMappingTable) != n {
		return fmt.Errorf("%w: mapping table has %d entries for %d grid points", ErrTopologyMismatch, len(t.GridMappingTable), n)
	}
	for gp, a := range t.GridAddress {
		if got := GridIndex(a, t.MeshNumbers); got != gp {
			return fmt.Errorf("%w: address %v of grid point %d has index %d", ErrTopologyMismatch, a, gp, got)
		}
	}
	for gp, m := range t.GridMappingTable {
		if m < 0 || m >= n {
			return fmt.Errorf("%w: grid point %d maps to %d", ErrTopologyMismatch, gp, m)
		}
		if t.GridMappingTable[m] != m {
			return fmt.Errorf("%w: grid point %d maps to reducible point %d", ErrTopologyMismatch, gp, m)
		}
	}
	return nil
}

// GridIndex returns the index of a grid address, folding it into the mesh.
func GridIndex(address [3]int, mesh [3]int) int {
	return mod(address[0], mesh[0]) +
		mod(address[1], mesh[1])*mesh[0] +
		mod(address[2], mesh[2])*mesh[0]*mesh[1]
}

// GridAddresses returns the addresses of all grid points of a mesh, each
// component folded into (-m/2, m/2].
func GridAddresses(mesh [3]int) [][3]int {
	n := mesh[0] * mesh[1] * mesh[2]
	out := make([][3]int, n)
	for gp := range out {
		a := [3]int{
			gp % mesh[0],
			gp / mesh[0] % mesh[1],
			gp / (mesh[0] * mesh[1]),
		}
		for i := range a {
			if 2*a[i] > mesh[i] {
				a[i] -= mesh[i]
			}
		}
		out[gp] = a
	}
	return out
}

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
