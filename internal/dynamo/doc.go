// Package dynamo provides the value types shared by the field integrator.
//
//   - [Field]: scalar field values on the grid, with finiteness and summary helpers
//   - [Snapshot]: an independent copy of the field at a recorded step
//   - [History]: the append-only list of snapshots of one run
//   - [Result]: everything a run produces
//
// # Errors
//
// Apart from cancellation, the only runtime failure of a run is
// [ErrUnstable], wrapped in a [SimulationError] carrying the step index.
// The two starting levels are usually the same field (zero initial velocity):
//
//	res, err := s.Run(ctx, initial, initial, cfg)
//	var se *dynamo.SimulationError
//	if errors.As(err, &se) && errors.Is(err, dynamo.ErrUnstable) {
//	    // res.History holds every snapshot taken before step se.Step
//	}
package dynamo
