package optim

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// search is one 1D minimisation strategy, chosen once per call.
type search[T constraints.Float] func(xa, xb, eps T, f func(T) T, stats *Stats) T

func searchFor[T constraints.Float](m Method) (search[T], error) {
	switch m {
	case Dichotomy:
		return dichotomy[T], nil
	case GoldenSection:
		return goldenSection[T], nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// FindMinimum narrows [xa, xb] around the minimum of f until the bracket is
// at most eps wide and returns its midpoint. f is assumed unimodal on the
// bracket. Inputs are validated before f is first called.
func FindMinimum[T constraints.Float](method Method, xa, xb, eps T, f func(T) T, stats *Stats) (T, error) {
	run, err := searchFor[T](method)
	if err != nil {
		return 0, err
	}
	if err := checkTolerance(eps); err != nil {
		return 0, err
	}
	if err := checkBracket(xa, xb); err != nil {
		return 0, err
	}
	return run(xa, xb, eps, f, stats), nil
}

func checkTolerance[T constraints.Float](eps T) error {
	if !(eps > 0) || math.IsInf(float64(eps), 0) {
		return fmt.Errorf("%w: eps=%v", ErrInvalidTolerance, eps)
	}
	return nil
}

func checkBracket[T constraints.Float](xa, xb T) error {
	if math.IsInf(float64(xa), 0) || math.IsInf(float64(xb), 0) || !(xa < xb) {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidBracket, xa, xb)
	}
	return nil
}
