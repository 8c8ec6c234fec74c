// Package viz renders field histories in the terminal.
//
//   - [Heatmap]: position × time heat map with a viridis colour scale
//   - [Profile]: one snapshot plotted against position
//   - [Trend]: min, mean and max of every snapshot
//   - [SnapshotLine], [ProbeReport]: styled console reports
//
// Values on the non-uniform grid are linearly resampled onto evenly spaced
// columns with [Resample] before drawing.
package viz
