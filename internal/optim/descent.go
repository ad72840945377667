package optim

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

// Objective is a scalar function of N variables. It receives a working
// vector owned by the caller and must neither keep nor modify it.
type Objective[T constraints.Float] func(x vec.Vector[T]) T

// Descent minimises an Objective over a box with one coordinate sweep.
type Descent[T constraints.Float] struct {
	method   Method
	search   search[T]
	step     T
	eps      T
	minPoint vec.Vector[T]
	maxPoint vec.Vector[T]
	f        Objective[T]
}

// NewDescent validates the configuration. h is the forward difference step
// of Gradient, eps the bracket tolerance of each axis search.
func NewDescent[T constraints.Float](method Method, h, eps T, minPoint, maxPoint vec.Vector[T], f Objective[T]) (*Descent[T], error) {
	run, err := searchFor[T](method)
	if err != nil {
		return nil, err
	}
	if err := checkTolerance(eps); err != nil {
		return nil, err
	}
	if len(minPoint) != len(maxPoint) {
		return nil, fmt.Errorf("%w: min has %d axes, max has %d",
			vec.ErrDimensionMismatch, len(minPoint), len(maxPoint))
	}
	for i := range minPoint {
		if err := checkBracket(minPoint[i], maxPoint[i]); err != nil {
			return nil, fmt.Errorf("axis %d: %w", i, err)
		}
	}

	return &Descent[T]{
		method:   method,
		search:   run,
		step:     h,
		eps:      eps,
		minPoint: minPoint.Clone(),
		maxPoint: maxPoint.Clone(),
		f:        f,
	}, nil
}

func (d *Descent[T]) Method() Method { return d.method }
func (d *Descent[T]) Dim() int       { return len(d.minPoint) }

// FindMinimum starts at the lower corner of the box and searches every axis
// once, left to right, over [min[i], max[i]]. It is a single sweep: there
// is no outer loop until the point stops moving.
func (d *Descent[T]) FindMinimum(stats *Stats) vec.Vector[T] {
	work := d.minPoint.Clone()

	for i := range work {
		axis := i
		partial := func(x T) T {
			work[axis] = x
			return d.f(work)
		}
		if stats != nil {
			stats.axis = axis
		}
		work[axis] = d.search(d.minPoint[axis], d.maxPoint[axis], d.eps, partial, stats)
	}
	if stats != nil {
		stats.axis = 0
	}

	return work
}

// Gradient returns the forward differences f(p + h·e_i) - f(p) per axis.
// They are not divided by h. f(p) is evaluated once.
func (d *Descent[T]) Gradient(point vec.Vector[T]) vec.Vector[T] {
	if len(point) != len(d.minPoint) {
		panic(fmt.Errorf("%w: point has %d axes, objective %d",
			vec.ErrDimensionMismatch, len(point), len(d.minPoint)))
	}

	moved := point.Clone()
	f0 := d.f(moved)

	grad := make(vec.Vector[T], len(point))
	for i := range point {
		moved[i] = point[i] + d.step
		grad[i] = d.f(moved) - f0
		moved[i] = point[i]
	}
	return grad
}
