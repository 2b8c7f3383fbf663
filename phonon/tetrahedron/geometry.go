package tetrahedron

var mainDiagonals = [4][3]int{
	{1, 1, 1},
	{-1, 1, 1},
	{1, -1, 1},
	{1, 1, -1},
}

// axisOrders lists the six orders in which a path along the cell edges can
// walk from one end of a main diagonal to the other.
var axisOrders = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// RelativeGridAddress returns the vertex offsets of the 24 tetrahedra that
// share a grid point. The first vertex of every tetrahedron is the grid point
// itself, i.e. {0, 0, 0}.
//
// recLattice holds the reciprocal basis vectors as columns. The cells are split
// along whichever main diagonal of the microzone (recLattice[:, j] / mesh[j]) is
// shortest.
func RelativeGridAddress(recLattice [3][3]float64, mesh [3]int) [24][4][3]int {
	return relativeGridAddressAlong(mainDiagonals[shortestMainDiagonal(recLattice, mesh)])
}

func shortestMainDiagonal(recLattice [3][3]float64, mesh [3]int) int {
	best := 0
	minLength := 0.0
	for i, d := range mainDiagonals {
		length := 0.0
		for r := 0; r < 3; r++ {
			v := 0.0
			for c := 0; c < 3; c++ {
				v += recLattice[r][c] / float64(mesh[c]) * float64(d[c])
			}
			length += v * v
		}
		if i == 0 || length < minLength {
			minLength = length
			best = i
		}
	}
	return best
}

func relativeGridAddressAlong(diag [3]int) [24][4][3]int {
	var out [24][4][3]int
	n := 0

	// Walk the eight cells that have the origin as a corner.
	for cell := 0; cell < 8; cell++ {
		var start [3]int
		for a := 0; a < 3; a++ {
			start[a] = -(cell >> a & 1)
			if diag[a] < 0 {
				start[a]++
			}
		}

		for _, order := range axisOrders {
			var verts [4][3]int
			verts[0] = start
			for step, a := range order {
				verts[step+1] = verts[step]
				verts[step+1][a] += diag[a]
			}

			origin := -1
			for k, v := range verts {
				if v == [3]int{} {
					origin = k
					break
				}
			}
			if origin < 0 {
				continue
			}

			out[n][0] = verts[origin]
			j := 1
			for k, v := range verts {
				if k != origin {
					out[n][j] = v
					j++
				}
			}
			n++
		}
	}
	return out
}
