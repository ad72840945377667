package quad

import "errors"

var (
	ErrUnknownMethod = errors.New("quad: unknown method")

	// ErrUnimplementedMethod indicates a declared method with no rule
	// behind it (Simpson).
	ErrUnimplementedMethod = errors.New("quad: method not implemented")

	ErrInvalidStep = errors.New("quad: step must be positive and finite")
)
