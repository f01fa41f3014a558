package fracture

import "errors"

var (
	// ErrNilGrid indicates a nil grid was passed.
	ErrNilGrid = errors.New("fracture: grid is nil")

	// ErrSizeMismatch indicates a stress field or region sized differently from the grid.
	ErrSizeMismatch = errors.New("fracture: size does not match vertex count")

	// ErrNoRegions indicates Fracture was called without plate slots.
	ErrNoRegions = errors.New("fracture: at least one region is required")

	// ErrOptionViolation indicates an invalid Option.
	ErrOptionViolation = errors.New("fracture: invalid option supplied")

	// ErrUnknownPolicy indicates a policy name that ParsePolicy does not know.
	ErrUnknownPolicy = errors.New("fracture: unknown convergence policy")
)

// ErrCanceled indicates convergence was interrupted by its context.
var ErrCanceled = errors.New("fracture: convergence canceled by context")

// ConvergenceError wraps an error with the iteration it surfaced at.
type ConvergenceError struct {
	Iteration int
	Claimed   int
	Wrapped   error
}

func (e *ConvergenceError) Error() string {
	return e.Wrapped.Error()
}

func (e *ConvergenceError) Unwrap() error {
	return e.Wrapped
}
