package integrators

import (
	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

// Func is the time derivative of one state component.
type Func[T constraints.Float] func(t T, y vec.Vector[T]) T

// System holds one derivative function per state component.
type System[T constraints.Float] []Func[T]

func (s System[T]) Rank() int { return len(s) }

// scaled writes h*f_i(t, y) into dst for every component.
func (s System[T]) scaled(dst vec.Vector[T], t, h T, y vec.Vector[T]) {
	for i, f := range s {
		dst[i] = h * f(t, y)
	}
}

// Observer receives the state after every integration step.
type Observer[T constraints.Float] interface {
	OnStep(t T, y vec.Vector[T])
}

// Trajectory records sampled states of an integration run.
type Trajectory[T constraints.Float] struct {
	Times  []T
	States []vec.Vector[T]

	every int
	seen  int
}

// NewTrajectory keeps every k-th observed state; k < 1 keeps all of them.
func NewTrajectory[T constraints.Float](every int) *Trajectory[T] {
	if every < 1 {
		every = 1
	}
	return &Trajectory[T]{every: every}
}

func (tr *Trajectory[T]) OnStep(t T, y vec.Vector[T]) {
	if tr.seen%tr.every == 0 {
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, y.Clone())
	}
	tr.seen++
}

func (tr *Trajectory[T]) Len() int { return len(tr.Times) }

// Component extracts the series of state component i.
func (tr *Trajectory[T]) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		out[k] = float64(s[i])
	}
	return out
}
