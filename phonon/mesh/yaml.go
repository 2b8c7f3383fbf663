package mesh

import (
	"fmt"
	"io"
	"math"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

type yamlDocument struct {
	Mesh              []int        `yaml:"mesh"`
	NQPoint           int          `yaml:"nqpoint"`
	ReciprocalLattice [][]float64  `yaml:"reciprocal_lattice"`
	NAtom             int          `yaml:"natom"`
	Phonon            []yamlQPoint `yaml:"phonon"`
}

type yamlQPoint struct {
	Position []float64  `yaml:"q-position"`
	Weight   float64    `yaml:"weight"`
	Band     []yamlBand `yaml:"band"`
}

type yamlBand struct {
	Frequency float64 `yaml:"frequency"`
	// Eigenvector is indexed [atom][axis][re, im].
	Eigenvector [][][]float64 `yaml:"eigenvector"`
}

// gridTolerance bounds how far q·mesh may sit from an integer for a q-point to
// count as a grid point.
const gridTolerance = 1e-6

// DecodeYAML reads samples from a phonopy mesh.yaml file.
//
// Eigenvectors are attached when every band carries one. A topology is
// attached only for a full Γ-centred mesh (nqpoint equal to the number of grid
// points, every weight 1). In that case the rows are reordered by grid index
// and every grid point is its own irreducible point.
func DecodeYAML(r io.Reader) (*Samples, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(doc.Phonon) == 0 {
		return nil, ErrEmpty
	}

	freqs := make([][]float64, len(doc.Phonon))
	weights := make([]float64, len(doc.Phonon))
	var vecs [][][]complex128
	withVectors := true
	for g, qp := range doc.Phonon {
		if len(qp.Band) == 0 {
			return nil, fmt.Errorf("%w: q-point %d has no bands", ErrShapeMismatch, g)
		}
		weights[g] = qp.Weight
		freqs[g] = make([]float64, len(qp.Band))
		for b, band := range qp.Band {
			freqs[g][b] = band.Frequency
			if band.Eigenvector == nil {
				withVectors = false
			}
		}
	}
	if withVectors {
		var err error
		if vecs, err = yamlEigenvectors(doc.Phonon); err != nil {
			return nil, err
		}
		if doc.NAtom > 0 && len(vecs[0]) != 3*doc.NAtom {
			return nil, fmt.Errorf("%w: %d components for %d atoms", ErrEigenvectorShape, len(vecs[0]), doc.NAtom)
		}
	}

	var opts []Option
	if top, order, ok := yamlTopology(&doc); ok {
		freqs = permute(freqs, order)
		weights = permute(weights, order)
		if vecs != nil {
			vecs = permute(vecs, order)
		}
		opts = append(opts, WithTopology(top))
	}
	if vecs != nil {
		opts = append(opts, WithEigenvectors(vecs))
	}
	return New(freqs, weights, opts...)
}

func yamlEigenvectors(phonon []yamlQPoint) ([][][]complex128, error) {
	out := make([][][]complex128, len(phonon))
	for g, qp := range phonon {
		bands := len(qp.Band)
		dim := 3 * len(qp.Band[0].Eigenvector)
		m := make([][]complex128, dim)
		for i := range m {
			m[i] = make([]complex128, bands)
		}
		for b, band := range qp.Band {
			if 3*len(band.Eigenvector) != dim {
				return nil, fmt.Errorf("%w: q-point %d band %d has %d atoms", ErrEigenvectorShape, g, b, len(band.Eigenvector))
			}
			for atom, axes := range band.Eigenvector {
				if len(axes) != 3 {
					return nil, fmt.Errorf("%w: q-point %d band %d atom %d has %d axes", ErrEigenvectorShape, g, b, atom, len(axes))
				}
				for a, pair := range axes {
					if len(pair) != 2 {
						return nil, fmt.Errorf("%w: eigenvector entries are [re, im] pairs", ErrMalformed)
					}
					m[3*atom+a][b] = complex(pair[0], pair[1])
				}
			}
		}
		out[g] = m
	}
	return out, nil
}

// yamlTopology derives the topology of a full mesh. order[gp] is the row that
// holds grid point gp.
func yamlTopology(doc *yamlDocument) (tetrahedron.Topology, []int, bool) {
	if len(doc.Mesh) != 3 || len(doc.ReciprocalLattice) != 3 {
		return tetrahedron.Topology{}, nil, false
	}
	mesh := [3]int{doc.Mesh[0], doc.Mesh[1], doc.Mesh[2]}
	if min(mesh[0], mesh[1], mesh[2]) <= 0 {
		return tetrahedron.Topology{}, nil, false
	}
	n := mesh[0] * mesh[1] * mesh[2]
	if len(doc.Phonon) != n || (doc.NQPoint != 0 && doc.NQPoint != n) {
		return tetrahedron.Topology{}, nil, false
	}

	var rec [3][3]float64
	for i, row := range doc.ReciprocalLattice {
		if len(row) != 3 {
			return tetrahedron.Topology{}, nil, false
		}
		for j := range row {
			rec[j][i] = row[j]
		}
	}

	order := make([]int, n)
	for gp := range order {
		order[gp] = -1
	}
	for row, qp := range doc.Phonon {
		if qp.Weight != 1 || len(qp.Position) != 3 {
			return tetrahedron.Topology{}, nil, false
		}
		var a [3]int
		for i := range a {
			x := qp.Position[i] * float64(mesh[i])
			a[i] = int(math.Round(x))
			if math.Abs(x-float64(a[i])) > gridTolerance {
				return tetrahedron.Topology{}, nil, false
			}
		}
		gp := tetrahedron.GridIndex(a, mesh)
		if order[gp] >= 0 {
			return tetrahedron.Topology{}, nil, false
		}
		order[gp] = row
	}

	mapping := make([]int, n)
	for gp := range mapping {
		mapping[gp] = gp
	}
	return tetrahedron.Topology{
		MeshNumbers:       mesh,
		GridAddress:       tetrahedron.GridAddresses(mesh),
		GridMappingTable:  mapping,
		ReciprocalLattice: rec,
	}, order, true
}

func permute[T any](rows []T, order []int) []T {
	out := slices.Clone(rows)
	for gp, row := range order {
		out[gp] = rows[row]
	}
	return out
}
