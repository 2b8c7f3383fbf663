// Package dos computes phonon densities of states on a frequency grid.
//
// [TotalDos] yields the total density of states and [PartialDos] its
// projection onto atoms, onto Cartesian components or along a direction. Both
// take their input from a [Mesh] and integrate in one of two modes chosen at
// construction:
//
//   - [Smearing]: every band frequency is broadened with a Normal or Cauchy
//     kernel, weighted by its grid point and normalised by the sum of weights.
//     The sum is evaluated directly or, with [WithBinnedSmearing], by FFT
//     convolution of a histogram.
//   - [Tetrahedron]: the linear tetrahedron method over the full mesh,
//     normalised by its number of grid points. The mesh must implement
//     [TetrahedronMesh].
//
// Both modes integrate to the number of bands.
//
// # Lifecycle
//
// An engine starts in [StateGridReady]. [TotalDos.Run] and [PartialDos.Run]
// move it to [StateComputed]; [TotalDos.FitDebye] to [StateFitApplied]. Running
// again discards the fit, and SetFrequencyRange discards all results.
//
//	d, err := dos.NewTotal(m, dos.WithSigma(0.1))
//	if err != nil { ... }
//	if err := d.Run(); err != nil { ... }
//	points, values, _ := d.DOS()
//
// # Output
//
// [WriteTotal] and [WritePartial] write fixed-width text tables; [SumChannels]
// groups partial DOS channels, e.g. symmetry-equivalent atoms.
package dos
