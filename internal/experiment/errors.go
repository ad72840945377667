package experiment

import (
	"errors"
	"fmt"

	"github.com/san-kum/numkit/internal/config"
)

var (
	ErrUnknownProblem = errors.New("experiment: unknown problem")

	// ErrInvalidParams indicates problem parameters outside their domain.
	ErrInvalidParams = errors.New("experiment: invalid problem parameters")
)

// RunError wraps a failure with the run it belongs to.
type RunError struct {
	Kind    config.Kind
	Problem string
	Method  string
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Kind, e.Problem, e.Method, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
