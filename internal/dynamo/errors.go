package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for field integration.
var (
	// ErrUnstable indicates a non-finite field value at a snapshot.
	ErrUnstable = errors.New("dynamo: numerical instability (NaN or Inf in field)")

	// ErrDimensionMismatch indicates a field or density array that does not match the grid.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between field and grid")

	// ErrInvalidGrid indicates a grid that is too short or not strictly increasing.
	ErrInvalidGrid = errors.New("dynamo: invalid grid")

	// ErrInvalidConfig indicates a run configuration outside valid bounds.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")
)

// SimulationError wraps an error with the step at which it was detected.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4e): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
