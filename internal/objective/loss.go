package objective

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

// NeuronLoss is the squared difference between expected and the neuron's
// last output.
func NeuronLoss[T vec.Number](n *Neuron[T], expected T) float64 {
	d := float64(expected) - float64(n.Value())
	return d * d
}

// LineLoss sums NeuronLoss over the line. expected holds one value per
// neuron.
func LineLoss[T vec.Number](l *Line[T], expected vec.Vector[T]) (float64, error) {
	if len(expected) != l.Size() {
		return 0, fmt.Errorf("%w: %d expected values for %d neurons",
			vec.ErrDimensionMismatch, len(expected), l.Size())
	}
	var sum float64
	for k, n := range l.neurons {
		sum += NeuronLoss(n, expected[k])
	}
	return sum, nil
}

// Sample is one training pair for a single neuron.
type Sample[T constraints.Float] struct {
	Input    vec.Vector[T]
	Expected T
}

// Fit is the total squared error of a neuron over a fixed sample set, as a
// function of the neuron's weights.
type Fit[T constraints.Float] struct {
	dim     int
	samples []Sample[T]
}

// NewFit checks that all samples share one input dimension. The samples
// are copied.
func NewFit[T constraints.Float](samples []Sample[T]) (*Fit[T], error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	dim := len(samples[0].Input)
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidSize)
	}

	own := make([]Sample[T], len(samples))
	for i, s := range samples {
		if len(s.Input) != dim {
			return nil, fmt.Errorf("sample %d: %w: %d inputs, want %d",
				i, vec.ErrDimensionMismatch, len(s.Input), dim)
		}
		own[i] = Sample[T]{Input: s.Input.Clone(), Expected: s.Expected}
	}
	return &Fit[T]{dim: dim, samples: own}, nil
}

// SamplesFrom labels every input with the output of a neuron carrying the
// given weights.
func SamplesFrom[T constraints.Float](weights vec.Vector[T], inputs []vec.Vector[T]) ([]Sample[T], error) {
	n, err := NewNeuron[T](len(weights))
	if err != nil {
		return nil, err
	}
	if err := n.SetWeights(weights); err != nil {
		return nil, err
	}

	out := make([]Sample[T], len(inputs))
	for i, in := range inputs {
		if err := n.Apply(in); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		out[i] = Sample[T]{Input: in.Clone(), Expected: n.Value()}
	}
	return out, nil
}

func (f *Fit[T]) Dim() int { return f.dim }
func (f *Fit[T]) Len() int { return len(f.samples) }

// Objective returns the loss as a function of the weights. The returned
// function owns a neuron and is not safe for concurrent use. It panics
// when called with the wrong number of weights.
func (f *Fit[T]) Objective() func(w vec.Vector[T]) T {
	n := &Neuron[T]{weights: vec.New[T](f.dim)}

	return func(w vec.Vector[T]) T {
		if err := n.SetWeights(w); err != nil {
			panic(err)
		}
		var total float64
		for _, s := range f.samples {
			n.value = n.dot(s.Input)
			total += NeuronLoss(n, s.Expected)
		}
		return T(total)
	}
}
