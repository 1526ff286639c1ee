package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and execution.
var (
	// ErrInvalidParameters indicates a negative or non-finite epidemic rate.
	ErrInvalidParameters = errors.New("dynamo: invalid parameters")

	// ErrDegenerateConfiguration indicates a step size, sampling interval or
	// horizon that is zero, negative or non-finite.
	ErrDegenerateConfiguration = errors.New("dynamo: degenerate configuration")

	// ErrInvalidState indicates an initial state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with the point in the run where it surfaced.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
