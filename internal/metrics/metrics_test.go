package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbsRelError(t *testing.T) {
	assert.InDelta(t, 5.0, AbsError([]float64{3, 4}, []float64{0, 0}), 1e-15)
	assert.InDelta(t, 0.5, RelError([]float64{3, 4}, []float64{6, 8}), 1e-15)
	assert.InDelta(t, 5.0, RelError([]float64{3, 4}, []float64{0, 0}), 1e-15)
	assert.Panics(t, func() { AbsError([]float64{1}, []float64{1, 2}) })
}

func TestObservedOrder(t *testing.T) {
	assert.InDelta(t, 4.0, ObservedOrder(16e-8, 1e-8, 2), 1e-12)
	assert.InDelta(t, 1.0, ObservedOrder(1e-2, 1e-3, 10), 1e-12)
	assert.True(t, math.IsNaN(ObservedOrder(0, 1e-3, 10)))
	assert.True(t, math.IsNaN(ObservedOrder(1e-2, 1e-3, 1)))
}

func TestDeviation(t *testing.T) {
	exact := func(t float64) []float64 { return []float64{t, 2 * t} }
	m := NewDeviation(exact)
	assert.Equal(t, "max_deviation", m.Name())

	m.Observe(0, []float64{0, 0})
	m.Observe(1, []float64{1, 2.5})
	m.Observe(2, []float64{2, 4.1})

	assert.InDelta(t, 0.5, m.Value(), 1e-12)
	assert.InDelta(t, 0.1, m.Last(), 1e-12)

	m.Reset()
	assert.Zero(t, m.Value())
	assert.Zero(t, m.Last())
}

func TestDeviation_NaNSticks(t *testing.T) {
	m := NewDeviation(func(float64) []float64 { return []float64{0} })
	m.Observe(0, []float64{math.NaN()})
	m.Observe(1, []float64{0})
	assert.True(t, math.IsNaN(m.Value()))
}

func TestBounded(t *testing.T) {
	m := NewBounded(10)
	assert.Equal(t, 1.0, m.Value())

	m.Observe(0, []float64{1, -10})
	m.Observe(1, []float64{1, 11})
	m.Observe(2, []float64{math.Inf(1), 0})
	m.Observe(3, []float64{math.NaN(), 0})

	assert.Equal(t, 0.25, m.Value())

	m.Reset()
	assert.Equal(t, 1.0, m.Value())
}
