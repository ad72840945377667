package objective

import "errors"

var (
	// ErrNoSamples indicates a Fit without samples.
	ErrNoSamples = errors.New("objective: no samples")

	ErrInvalidSize = errors.New("objective: size must be positive")
)
