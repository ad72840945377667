package integrators

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

// Stepper computes the single-step increment of one method into dst.
type Stepper[T constraints.Float] interface {
	Step(dst vec.Vector[T], sys System[T], t, h T, y vec.Vector[T])
}

// NewStepper returns the stepper behind m.
func NewStepper[T constraints.Float](m Method) (Stepper[T], error) {
	switch m {
	case Euler:
		return euler[T]{}, nil
	case RK4:
		return &rk4[T]{}, nil
	case RKF7:
		return &rkf[T]{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// Solver integrates a System with a fixed step and one method.
type Solver[T constraints.Float] struct {
	method  Method
	step    T
	rank    int
	sys     System[T]
	stepper Stepper[T]
	delta   vec.Vector[T]
}

// New binds sys to a method and a step size. y0 only fixes the state arity.
func New[T constraints.Float](method Method, h T, y0 vec.Vector[T], sys System[T]) (*Solver[T], error) {
	stepper, err := NewStepper[T](method)
	if err != nil {
		return nil, err
	}
	if h == 0 || !finite(h) {
		return nil, fmt.Errorf("%w: h=%v", ErrInvalidStep, h)
	}
	if len(sys) == 0 {
		return nil, ErrEmptySystem
	}
	if len(y0) != len(sys) {
		return nil, fmt.Errorf("%w: state has %d components, system rank %d",
			vec.ErrDimensionMismatch, len(y0), len(sys))
	}

	return &Solver[T]{
		method:  method,
		step:    h,
		rank:    len(sys),
		sys:     sys,
		stepper: stepper,
		delta:   make(vec.Vector[T], len(sys)),
	}, nil
}

func (s *Solver[T]) Method() Method { return s.method }
func (s *Solver[T]) Step() T        { return s.step }
func (s *Solver[T]) Rank() int      { return s.rank }

// Delta returns the increment one step would add to y at time t. For Euler
// this is h*f(t, y); for the Runge-Kutta methods it is the weighted stage
// combination, each stage already scaled by h.
func (s *Solver[T]) Delta(t T, y vec.Vector[T]) vec.Vector[T] {
	out := make(vec.Vector[T], s.rank)
	s.stepper.Step(out, s.sys, t, s.step, y)
	return out
}

// Integrate advances y0 from t0 while t < t1. The endpoint may overshoot t1
// by up to one step.
func (s *Solver[T]) Integrate(t0, t1 T, y0 vec.Vector[T]) (vec.Vector[T], error) {
	return s.IntegrateObserved(t0, t1, y0, nil)
}

// IntegrateObserved is Integrate with obs notified of the initial state and
// of the state after every step.
func (s *Solver[T]) IntegrateObserved(t0, t1 T, y0 vec.Vector[T], obs Observer[T]) (vec.Vector[T], error) {
	if len(y0) != s.rank {
		return nil, fmt.Errorf("%w: state has %d components, system rank %d",
			vec.ErrDimensionMismatch, len(y0), s.rank)
	}
	if t1 > t0 && s.step < 0 {
		return nil, fmt.Errorf("%w: h=%v cannot reach t1=%v from t0=%v", ErrInvalidStep, s.step, t1, t0)
	}

	y := y0.Clone()
	if obs != nil {
		obs.OnStep(t0, y)
	}

	for t := t0; t < t1; {
		s.stepper.Step(s.delta, s.sys, t, s.step, y)
		for i := range y {
			y[i] += s.delta[i]
		}
		t += s.step
		if obs != nil {
			obs.OnStep(t, y)
		}
	}

	return y, nil
}

// Steps counts the steps Integrate takes on [t0, t1].
func (s *Solver[T]) Steps(t0, t1 T) int {
	if t1 > t0 && s.step < 0 {
		return 0
	}
	n := 0
	for t := t0; t < t1; t += s.step {
		n++
	}
	return n
}

func finite[T constraints.Float](x T) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
