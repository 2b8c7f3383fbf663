package mesh

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/cwbudde/algo-phonon/phonon/tetrahedron"
)

// jsonDocument is the on-disk layout of DecodeJSON and EncodeJSON. The
// topology fields are either all present or all absent; reciprocal_lattice
// lists the basis vectors as rows.
type jsonDocument struct {
	Mesh              *[3]int          `json:"mesh,omitempty"`
	ReciprocalLattice *[3][3]float64   `json:"reciprocal_lattice,omitempty"`
	GridAddress       [][3]int         `json:"grid_address,omitempty"`
	GridMappingTable  []int            `json:"grid_mapping_table,omitempty"`
	Frequencies       [][]float64      `json:"frequencies"`
	Weights           []float64        `json:"weights,omitempty"`
	Eigenvectors      [][][][2]float64 `json:"eigenvectors,omitempty"`
}

// DecodeJSON reads samples from a JSON document:
//
//	{
//	  "mesh": [8, 8, 8],
//	  "reciprocal_lattice": [[1, 0, 0], [0, 1, 0], [0, 0, 1]],
//	  "grid_address": [[0, 0, 0], ...],
//	  "grid_mapping_table": [0, 1, ...],
//	  "frequencies": [[...], ...],
//	  "weights": [1, 2, ...],
//	  "eigenvectors": [[[[re, im], ...], ...], ...]
//	}
//
// Only frequencies is required. Missing weights default to one per row.
func DecodeJSON(r io.Reader) (*Samples, error) {
	var doc jsonDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	weights := doc.Weights
	if weights == nil {
		weights = make([]float64, len(doc.Frequencies))
		for i := range weights {
			weights[i] = 1
		}
	}

	var opts []Option
	if doc.Eigenvectors != nil {
		opts = append(opts, WithEigenvectors(complexMatrices(doc.Eigenvectors)))
	}

	hasTopology := doc.Mesh != nil || doc.ReciprocalLattice != nil ||
		doc.GridAddress != nil || doc.GridMappingTable != nil
	if hasTopology {
		if doc.Mesh == nil || doc.ReciprocalLattice == nil || doc.GridAddress == nil || doc.GridMappingTable == nil {
			return nil, fmt.Errorf("%w: mesh, reciprocal_lattice, grid_address and grid_mapping_table go together", ErrMalformed)
		}
		opts = append(opts, WithTopology(tetrahedron.Topology{
			MeshNumbers:       *doc.Mesh,
			GridAddress:       doc.GridAddress,
			GridMappingTable:  doc.GridMappingTable,
			ReciprocalLattice: transpose(*doc.ReciprocalLattice),
		}))
	}

	return New(doc.Frequencies, weights, opts...)
}

// EncodeJSON writes samples in the layout read by DecodeJSON.
func EncodeJSON(w io.Writer, s *Samples) error {
	doc := jsonDocument{
		Frequencies: s.freqs,
		Weights:     s.weights,
	}
	if s.eigvecs != nil {
		doc.Eigenvectors = pairMatrices(s.eigvecs)
	}
	if top, ok := s.Topology(); ok {
		rec := transpose(top.ReciprocalLattice)
		doc.Mesh = &top.MeshNumbers
		doc.ReciprocalLattice = &rec
		doc.GridAddress = top.GridAddress
		doc.GridMappingTable = top.GridMappingTable
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func transpose(m [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := range m {
		for j := range m[i] {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func complexMatrices(in [][][][2]float64) [][][]complex128 {
	out := make([][][]complex128, len(in))
	for g, m := range in {
		out[g] = make([][]complex128, len(m))
		for i, row := range m {
			out[g][i] = make([]complex128, len(row))
			for b, p := range row {
				out[g][i][b] = complex(p[0], p[1])
			}
		}
	}
	return out
}

func pairMatrices(in [][][]complex128) [][][][2]float64 {
	out := make([][][][2]float64, len(in))
	for g, m := range in {
		out[g] = make([][][2]float64, len(m))
		for i, row := range m {
			out[g][i] = make([][2]float64, len(row))
			for b, z := range row {
				out[g][i][b] = [2]float64{real(z), imag(z)}
			}
		}
	}
	return out
}
