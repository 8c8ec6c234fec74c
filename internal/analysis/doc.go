// Package analysis computes spectra of a recorded field history.
//
//   - [TemporalSpectrum]: power spectrum of the field at one grid point
//     across the evenly spaced snapshots
//   - [SpatialSpectrum]: power spectrum of one snapshot resampled onto a
//     uniform grid
//
// The dominant component of either is found with [Dominant]:
//
//	s, err := analysis.TemporalSpectrum(history, probe)
//	f, p := analysis.Dominant(s)
package analysis
