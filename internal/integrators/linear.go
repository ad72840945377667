package integrators

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/numkit/internal/vec"
)

// LinearSystem builds the autonomous system y' = A·y from a square matrix.
// Rows of a are copied, later changes to a are not seen by the system.
func LinearSystem(a mat.Matrix) (System[float64], error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d matrix is not square", vec.ErrDimensionMismatch, r, c)
	}
	if r == 0 {
		return nil, ErrEmptySystem
	}

	sys := make(System[float64], r)
	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, a)
		sys[i] = func(_ float64, y vec.Vector[float64]) float64 {
			return floats.Dot(row, y)
		}
	}
	return sys, nil
}
