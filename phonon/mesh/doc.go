// Package mesh holds phonon frequencies sampled on a reciprocal-space mesh.
//
// A [Samples] value carries, for every irreducible grid point, the band
// frequencies, the grid-point weight and optionally the eigenvectors and the
// mesh topology needed by the tetrahedron method. It satisfies the mesh
// interfaces of package dos.
//
// Samples come from three places:
//
//   - [DecodeJSON]: a compact JSON document (see [EncodeJSON] for the layout).
//   - [DecodeYAML]: a phonopy mesh.yaml file.
//   - [Sample]: a [Model] evaluated on a Γ-centred mesh, optionally folding q and
//     -q together with [WithTimeReversal].
//
// Eigenvectors are indexed [grid point][3·atom + axis][band], so column b of a
// grid point's matrix is the polarisation of band b.
package mesh
