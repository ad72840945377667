package objective

import (
	"fmt"

	"github.com/san-kum/numkit/internal/vec"
)

// Neuron computes the inner product of its weights with an input of fixed
// dimension. Weights start at zero.
type Neuron[T vec.Number] struct {
	weights vec.Vector[T]
	value   T
}

func NewNeuron[T vec.Number](dim int) (*Neuron[T], error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dim=%d", ErrInvalidSize, dim)
	}
	return &Neuron[T]{weights: vec.New[T](dim)}, nil
}

func (n *Neuron[T]) Dim() int { return len(n.weights) }

// Weights returns a copy of the current weights.
func (n *Neuron[T]) Weights() vec.Vector[T] { return n.weights.Clone() }

func (n *Neuron[T]) SetWeights(w vec.Vector[T]) error {
	if len(w) != len(n.weights) {
		return fmt.Errorf("%w: %d weights for a %d-input neuron",
			vec.ErrDimensionMismatch, len(w), len(n.weights))
	}
	copy(n.weights, w)
	return nil
}

// Apply stores the weighted sum of input. Read it back with Value.
func (n *Neuron[T]) Apply(input vec.Vector[T]) error {
	if len(input) != len(n.weights) {
		return fmt.Errorf("%w: %d inputs for a %d-input neuron",
			vec.ErrDimensionMismatch, len(input), len(n.weights))
	}
	n.value = n.dot(input)
	return nil
}

func (n *Neuron[T]) Value() T { return n.value }

func (n *Neuron[T]) dot(input vec.Vector[T]) T {
	var sum T
	for i, w := range n.weights {
		sum += w * input[i]
	}
	return sum
}

// Line is a fixed number of neurons sharing one input.
type Line[T vec.Number] struct {
	neurons []*Neuron[T]
}

func NewLine[T vec.Number](size, dim int) (*Line[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size=%d", ErrInvalidSize, size)
	}
	l := &Line[T]{neurons: make([]*Neuron[T], size)}
	for k := range l.neurons {
		n, err := NewNeuron[T](dim)
		if err != nil {
			return nil, err
		}
		l.neurons[k] = n
	}
	return l, nil
}

func (l *Line[T]) Size() int { return len(l.neurons) }

// At returns the k-th neuron. It panics when k is out of range.
func (l *Line[T]) At(k int) *Neuron[T] { return l.neurons[k] }

func (l *Line[T]) SetWeights(k int, w vec.Vector[T]) error {
	if k < 0 || k >= len(l.neurons) {
		return fmt.Errorf("objective: neuron %d out of range [0, %d)", k, len(l.neurons))
	}
	return l.neurons[k].SetWeights(w)
}

// Apply feeds input to every neuron.
func (l *Line[T]) Apply(input vec.Vector[T]) error {
	for k, n := range l.neurons {
		if err := n.Apply(input); err != nil {
			return fmt.Errorf("neuron %d: %w", k, err)
		}
	}
	return nil
}

func (l *Line[T]) Values() vec.Vector[T] {
	out := make(vec.Vector[T], len(l.neurons))
	for k, n := range l.neurons {
		out[k] = n.value
	}
	return out
}
