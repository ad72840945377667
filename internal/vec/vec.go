package vec

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// ErrDimensionMismatch is raised when two vectors of different arity meet.
var ErrDimensionMismatch = errors.New("vec: dimension mismatch")

// Number is any integer or floating point component type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Vector is an ordered, fixed-arity tuple of homogeneous numeric
// components. Operations never modify the receiver.
type Vector[T Number] []T

func New[T Number](n int) Vector[T] {
	return make(Vector[T], n)
}

func Of[T Number](components ...T) Vector[T] {
	v := make(Vector[T], len(components))
	copy(v, components)
	return v
}

func (v Vector[T]) Dim() int { return len(v) }

func (v Vector[T]) Clone() Vector[T] {
	c := make(Vector[T], len(v))
	copy(c, v)
	return c
}

func (v Vector[T]) IsValid() bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (v Vector[T]) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return math.Sqrt(sum)
}

func (v Vector[T]) Add(other Vector[T]) Vector[T] {
	mustMatch(v, other)
	result := make(Vector[T], len(v))
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

func (v Vector[T]) Sub(other Vector[T]) Vector[T] {
	mustMatch(v, other)
	result := make(Vector[T], len(v))
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

func (v Vector[T]) AddScalar(s T) Vector[T] {
	result := make(Vector[T], len(v))
	for i := range v {
		result[i] = v[i] + s
	}
	return result
}

func (v Vector[T]) SubScalar(s T) Vector[T] {
	result := make(Vector[T], len(v))
	for i := range v {
		result[i] = v[i] - s
	}
	return result
}

func (v Vector[T]) Scale(factor T) Vector[T] {
	result := make(Vector[T], len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// Float64s copies the components into a plain float64 slice.
func (v Vector[T]) Float64s() []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// Distance is the Euclidean norm of a-b.
func Distance[T Number](a, b Vector[T]) float64 {
	return a.Sub(b).Norm()
}

func mustMatch[T Number](a, b Vector[T]) {
	if len(a) != len(b) {
		panic(fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b)))
	}
}
