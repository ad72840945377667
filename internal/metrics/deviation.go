package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Deviation tracks the largest distance between observed states and an
// exact solution.
type Deviation struct {
	name  string
	exact func(t float64) []float64
	max   float64
	last  float64
}

func NewDeviation(exact func(t float64) []float64) *Deviation {
	return &Deviation{
		name:  "max_deviation",
		exact: exact,
	}
}

func (d *Deviation) Name() string {
	return d.name
}

func (d *Deviation) Observe(t float64, y []float64) {
	d.last = floats.Distance(y, d.exact(t), 2)
	if d.last > d.max || math.IsNaN(d.last) {
		d.max = d.last
	}
}

func (d *Deviation) Value() float64 {
	return d.max
}

// Last is the deviation of the most recent sample.
func (d *Deviation) Last() float64 {
	return d.last
}

func (d *Deviation) Reset() {
	d.max = 0
	d.last = 0
}

// Bounded is the fraction of samples whose components all stay within
// ±threshold. Explicit methods on stiff problems drop below 1.
type Bounded struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBounded(threshold float64) *Bounded {
	return &Bounded{
		name:      "bounded",
		threshold: threshold,
	}
}

func (b *Bounded) Name() string {
	return b.name
}

func (b *Bounded) Observe(_ float64, y []float64) {
	b.samples++
	for _, val := range y {
		if !(math.Abs(val) <= b.threshold) {
			b.violations++
			break
		}
	}
}

func (b *Bounded) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounded) Reset() {
	b.violations = 0
	b.samples = 0
}
