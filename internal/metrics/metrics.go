// Package metrics measures how far numerical results are from known
// answers. A Metric observes an integration trajectory sample by sample;
// the free functions compare final values.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type Metric interface {
	Name() string
	Observe(t float64, y []float64)
	Value() float64
	Reset()
}

// AbsError is the Euclidean distance between got and want.
func AbsError(got, want []float64) float64 {
	return floats.Distance(got, want, 2)
}

// RelError is AbsError scaled by the norm of want. It falls back to the
// absolute error when want is zero.
func RelError(got, want []float64) float64 {
	abs := AbsError(got, want)
	n := floats.Norm(want, 2)
	if n == 0 {
		return abs
	}
	return abs / n
}

// ObservedOrder estimates p in err ≈ C·h^p from the errors of two runs
// whose steps differ by ratio (coarse step / fine step).
func ObservedOrder(coarse, fine, ratio float64) float64 {
	if coarse <= 0 || fine <= 0 || ratio <= 1 {
		return math.NaN()
	}
	return math.Log(coarse/fine) / math.Log(ratio)
}
