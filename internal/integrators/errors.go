package integrators

import "errors"

var (
	// ErrUnknownMethod indicates a method selector with no stepper behind it.
	ErrUnknownMethod = errors.New("integrators: unknown method")

	// ErrInvalidStep indicates a zero, non-finite, or wrong-signed step.
	ErrInvalidStep = errors.New("integrators: invalid step size")

	// ErrEmptySystem indicates a system without component functions.
	ErrEmptySystem = errors.New("integrators: empty system")
)
