package optim

import "errors"

var (
	ErrUnknownMethod = errors.New("optim: unknown method")

	// ErrInvalidTolerance indicates eps <= 0 or NaN; the search would never
	// stop.
	ErrInvalidTolerance = errors.New("optim: tolerance must be positive")

	// ErrInvalidBracket indicates xa >= xb or a non-finite bound.
	ErrInvalidBracket = errors.New("optim: invalid bracket")

	ErrInvalidGrid = errors.New("optim: grid needs at least two cells per axis")
)
