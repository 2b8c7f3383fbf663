package mesh

import (
	"fmt"
	"math"
	"slices"
)

// Model produces phonon frequencies and eigenvectors at a wave vector.
type Model interface {
	// NumAtoms returns the number of atoms in the primitive cell.
	NumAtoms() int
	// Solve returns the 3·NumAtoms ascending frequencies at q (fractional
	// reciprocal coordinates) and the eigenvectors indexed [component][band].
	Solve(q [3]float64) ([]float64, [][]complex128, error)
}

// SimpleCubic is a monatomic simple cubic crystal with nearest-neighbour
// springs. Longitudinal couples displacements along a bond, Transverse
// displacements across it.
//
// The dynamical matrix is diagonal:
//
//	D_αα(q) = 2/M · (K_L·(1 - cos 2πq_α) + K_T·Σ_{β≠α}(1 - cos 2πq_β))
//
// so every branch is polarised along a Cartesian axis.
type SimpleCubic struct {
	Longitudinal float64
	Transverse   float64
	Mass         float64
}

// NumAtoms returns 1.
func (SimpleCubic) NumAtoms() int { return 1 }

// Validate rejects negative spring constants and non-positive masses.
func (m SimpleCubic) Validate() error {
	if !(m.Longitudinal >= 0) || !(m.Transverse >= 0) {
		return fmt.Errorf("%w: spring constants %v, %v", ErrInvalidModel, m.Longitudinal, m.Transverse)
	}
	if !(m.Mass > 0) {
		return fmt.Errorf("%w: mass %v", ErrInvalidModel, m.Mass)
	}
	return nil
}

// Solve implements Model.
func (m SimpleCubic) Solve(q [3]float64) ([]float64, [][]complex128, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	var c [3]float64
	for a := range c {
		c[a] = 1 - math.Cos(2*math.Pi*q[a])
	}
	var d [3]float64
	for a := range d {
		d[a] = m.Longitudinal * c[a]
		for b := range c {
			if b != a {
				d[a] += m.Transverse * c[b]
			}
		}
		d[a] *= 2 / m.Mass
	}

	order := []int{0, 1, 2}
	slices.SortStableFunc(order, func(i, j int) int {
		switch {
		case d[i] < d[j]:
			return -1
		case d[i] > d[j]:
			return 1
		}
		return 0
	})

	freqs := make([]float64, 3)
	vecs := make([][]complex128, 3)
	for a := range vecs {
		vecs[a] = make([]complex128, 3)
	}
	for band, axis := range order {
		freqs[band] = math.Sqrt(max(d[axis], 0))
		vecs[axis][band] = 1
	}
	return freqs, vecs, nil
}
