package objective

import (
	"math"

	"github.com/san-kum/numkit/internal/vec"
)

// Parabola is A(x-RootX)²+D in one variable and A(x-RootX)²+B(y-RootY)²+D
// in two, with its search box.
type Parabola struct {
	A, B         float64
	D            float64
	RootX, RootY float64
	XA, XB       float64
	YA, YB       float64
}

// DefaultParabola has its minimum 10 at (1, 1) inside [-1, 2]×[0, 6].
func DefaultParabola() Parabola {
	return Parabola{
		A: 3, B: 4, D: 10,
		RootX: 1, RootY: 1,
		XA: -1, XB: 2,
		YA: 0, YB: 6,
	}
}

func (p Parabola) At(x float64) float64 {
	return p.A*(x-p.RootX)*(x-p.RootX) + p.D
}

func (p Parabola) At2(v vec.Vector[float64]) float64 {
	x, y := v[0], v[1]
	return p.A*(x-p.RootX)*(x-p.RootX) + p.B*(y-p.RootY)*(y-p.RootY) + p.D
}

func (p Parabola) Bracket() (float64, float64) { return p.XA, p.XB }

func (p Parabola) Box() (vec.Vector[float64], vec.Vector[float64]) {
	return vec.Of(p.XA, p.YA), vec.Of(p.XB, p.YB)
}

func (p Parabola) Minimum() vec.Vector[float64] { return vec.Of(p.RootX, p.RootY) }

// Cubic is -(D²x - x³), minimised on [0, D] at D/√3.
type Cubic struct {
	D float64
}

func DefaultCubic() Cubic { return Cubic{D: 10} }

func (c Cubic) At(x float64) float64 {
	return -(c.D*c.D*x - x*x*x)
}

func (c Cubic) AtVec(v vec.Vector[float64]) float64 { return c.At(v[0]) }

func (c Cubic) Bracket() (float64, float64) { return 0, c.D }

func (c Cubic) Minimum() float64 { return c.D / math.Sqrt(3) }

// Counter counts calls made through functions wrapped by Count.
type Counter struct {
	Calls int
}

// Count wraps f so that every call increments c.Calls.
func Count[X, Y any](f func(X) Y, c *Counter) func(X) Y {
	return func(x X) Y {
		c.Calls++
		return f(x)
	}
}
