package tetrahedron

import "fmt"

// Function selects the integrand of the tetrahedron method.
type Function int

const (
	// FunctionDelta integrates δ(ω - ε): the density of states.
	FunctionDelta Function = iota
	// FunctionStep integrates θ(ω - ε): the number of states below ω.
	FunctionStep
)

// String returns a short name for the integrand.
func (f Function) String() string {
	switch f {
	case FunctionDelta:
		return "delta"
	case FunctionStep:
		return "step"
	default:
		return fmt.Sprintf("Function(%d)", int(f))
	}
}

// IntegrationWeight returns the integration weight of a grid point at omega.
//
// omegas holds the band frequency at the four vertices of each of the 24
// tetrahedra sharing the grid point, with the grid point itself as vertex 0
// (see [RelativeGridAddress]). Summed over all grid points of a mesh and divided
// by the number of grid points, the weights of a band integrate to one.
//
// Frequencies equal to a vertex frequency fall on a boundary between the
// piecewise regions and contribute nothing to the delta integrand.
func IntegrationWeight(omega float64, omegas *[24][4]float64, fn Function) float64 {
	sum := 0.0
	for i := range omegas {
		v, ci := sortVertices(&omegas[i])
		if fn == FunctionStep {
			sum += stepWeight(omega, &v, ci)
		} else {
			sum += deltaWeight(omega, &v, ci)
		}
	}
	return sum / 6
}

// sortVertices sorts the vertex frequencies ascending and reports where
// vertex 0 ended up.
func sortVertices(t *[4]float64) (v [4]float64, ci int) {
	v = *t
	idx := [4]int{0, 1, 2, 3}
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	for k, i := range idx {
		if i == 0 {
			ci = k
			break
		}
	}
	return v, ci
}

// deltaWeight returns g(ω)·I_ci(ω): the density of the tetrahedron at omega
// times the share of vertex ci in the linear interpolation over the constant
// frequency cross section.
func deltaWeight(omega float64, v *[4]float64, ci int) float64 {
	f := func(n, m int) float64 { return (omega - v[m]) / (v[n] - v[m]) }

	var g float64
	var corner [4]float64
	switch {
	case v[0] < omega && omega < v[1]:
		g = 3 * f(1, 0) * f(2, 0) * f(3, 0) / (omega - v[0])
		corner = [4]float64{
			(f(0, 1) + f(0, 2) + f(0, 3)) / 3,
			f(1, 0) / 3,
			f(2, 0) / 3,
			f(3, 0) / 3,
		}
	case v[1] < omega && omega < v[2]:
		d := f(1, 2)*f(2, 0) + f(2, 1)*f(1, 3)
		g = 3 * d / (v[3] - v[0])
		corner = [4]float64{
			(f(0, 3) + f(0, 2)*f(2, 0)*f(1, 2)/d) / 3,
			(f(1, 2) + f(1, 3)*f(1, 3)*f(2, 1)/d) / 3,
			(f(2, 1) + f(2, 0)*f(2, 0)*f(1, 2)/d) / 3,
			(f(3, 0) + f(3, 1)*f(1, 3)*f(2, 1)/d) / 3,
		}
	case v[2] < omega && omega < v[3]:
		g = 3 * f(0, 3) * f(1, 3) / (v[3] - v[2])
		corner = [4]float64{
			f(0, 3) / 3,
			f(1, 3) / 3,
			f(2, 3) / 3,
			(f(3, 0) + f(3, 1) + f(3, 2)) / 3,
		}
	default:
		return 0
	}
	return g * corner[ci]
}

// stepWeight returns n(ω)·J_ci(ω): the volume fraction of the tetrahedron
// below omega times the share of vertex ci in the linear interpolation over
// that region.
func stepWeight(omega float64, v *[4]float64, ci int) float64 {
	f := func(n, m int) float64 { return (omega - v[m]) / (v[n] - v[m]) }

	switch {
	case omega <= v[0]:
		return 0
	case omega < v[1]:
		n := f(1, 0) * f(2, 0) * f(3, 0)
		corner := [4]float64{
			(1 + f(0, 1) + f(0, 2) + f(0, 3)) / 4,
			f(1, 0) / 4,
			f(2, 0) / 4,
			f(3, 0) / 4,
		}
		return n * corner[ci]
	case omega < v[2]:
		return prismWeight(omega, v, ci)
	case omega < v[3]:
		// Whole tetrahedron minus the corner tetrahedron above omega.
		small := f(0, 3) * f(1, 3) * f(2, 3)
		corner := [4]float64{
			f(0, 3) / 4,
			f(1, 3) / 4,
			f(2, 3) / 4,
			(1 + f(3, 0) + f(3, 1) + f(3, 2)) / 4,
		}
		return 0.25 - small*corner[ci]
	default:
		return 0.25
	}
}

// bary is a point in barycentric coordinates of the tetrahedron.
type bary [4]float64

// prismWeight handles v[1] <= omega < v[2], where the region below omega is a
// prism between the triangles (0, 02, 03) and (1, 12, 13). It is split into
// three tetrahedra whose volume-weighted centroids give n·J directly.
func prismWeight(omega float64, v *[4]float64, ci int) float64 {
	edge := func(i, j int) bary {
		t := (omega - v[i]) / (v[j] - v[i])
		var p bary
		p[i] = 1 - t
		p[j] = t
		return p
	}

	a0, a1, a2 := bary{1, 0, 0, 0}, edge(0, 2), edge(0, 3)
	b0, b1, b2 := bary{0, 1, 0, 0}, edge(1, 2), edge(1, 3)
	parts := [3][4]bary{
		{a0, a1, a2, b2},
		{a0, a1, b1, b2},
		{a0, b0, b1, b2},
	}

	sum := 0.0
	for _, p := range parts {
		vol := volumeFraction(&p)
		sum += vol * (p[0][ci] + p[1][ci] + p[2][ci] + p[3][ci]) / 4
	}
	return sum
}

// volumeFraction returns the volume of the tetrahedron spanned by four
// barycentric points relative to the reference tetrahedron.
func volumeFraction(p *[4]bary) float64 {
	var m [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r][c] = p[r+1][c+1] - p[0][c+1]
		}
	}
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if det < 0 {
		return -det
	}
	return det
}
