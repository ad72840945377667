package quad

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

// Method selects a quadrature rule.
type Method int

const (
	Rectangle Method = iota
	Trapezoid
	Simpson
)

func (m Method) String() string {
	switch m {
	case Rectangle:
		return "rectangle"
	case Trapezoid:
		return "trapezoid"
	case Simpson:
		return "simpson"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "rectangle", "rect":
		return Rectangle, nil
	case "trapezoid", "trap":
		return Trapezoid, nil
	case "simpson":
		return Simpson, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Methods lists the implemented methods.
func Methods() []Method {
	return []Method{Rectangle, Trapezoid}
}

// Func is an integrand.
type Func[T constraints.Float] func(T) T

// Rule approximates definite integrals of one integrand with a fixed step.
type Rule[T constraints.Float] struct {
	method  Method
	step    T
	f       Func[T]
	combine func(s, fa, fb T) T
}

func New[T constraints.Float](method Method, h T, f Func[T]) (*Rule[T], error) {
	var combine func(s, fa, fb T) T
	switch method {
	case Rectangle:
		combine = func(s, fa, fb T) T { return s + fa + fb }
	case Trapezoid:
		combine = func(s, fa, fb T) T { return s + (fa+fb)/2 }
	case Simpson:
		return nil, fmt.Errorf("%w: %v", ErrUnimplementedMethod, method)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}

	hf := float64(h)
	if !(hf > 0) || math.IsInf(hf, 0) {
		return nil, fmt.Errorf("%w: h=%v", ErrInvalidStep, h)
	}

	return &Rule[T]{method: method, step: h, f: f, combine: combine}, nil
}

func (r *Rule[T]) Method() Method { return r.method }
func (r *Rule[T]) Step() T        { return r.step }

// Integrate approximates ∫_a^b f.
func (r *Rule[T]) Integrate(a, b T) T {
	fa := r.f(a)
	fb := r.f(b)

	var s T
	for t := a + r.step; t < b; t += r.step {
		s += r.f(t)
	}

	return r.combine(s, fa, fb) * r.step
}

// Samples is the number of integrand evaluations Integrate performs on
// [a, b].
func (r *Rule[T]) Samples(a, b T) int {
	n := 2
	for t := a + r.step; t < b; t += r.step {
		n++
	}
	return n
}
