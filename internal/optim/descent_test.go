package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/numkit/internal/vec"
)

const (
	diffStep = 0.01
	tolerance = 0.01
)

func bowl(x vec.Vector[float64]) float64 {
	return 3*(x[0]-1)*(x[0]-1) + 4*(x[1]-1)*(x[1]-1) + 10
}

func shiftedBowl(x vec.Vector[float64]) float64 {
	return (x[0]-2)*(x[0]-2) + (x[1]-5)*(x[1]-5) + 10
}

func TestDescent_InvocationCounts(t *testing.T) {
	tests := []struct {
		name     string
		method   Method
		f        Objective[float64]
		min, max vec.Vector[float64]
		want     vec.Vector[float64]
		count    int
	}{
		{"dichotomy/bowl", Dichotomy, bowl, vec.Of(-1.0, 0.0), vec.Of(2.0, 6.0), vec.Of(1.0, 1.0), 44},
		{"golden/bowl", GoldenSection, bowl, vec.Of(-1.0, 0.0), vec.Of(2.0, 6.0), vec.Of(1.0, 1.0), 30},
		{"dichotomy/shifted", Dichotomy, shiftedBowl, vec.Of(0.0, 0.0), vec.Of(6.0, 6.0), vec.Of(2.0, 5.0), 47},
		{"golden/shifted", GoldenSection, shiftedBowl, vec.Of(0.0, 0.0), vec.Of(6.0, 6.0), vec.Of(2.0, 5.0), 32},
		{"dichotomy/cubic", Dichotomy, func(x vec.Vector[float64]) float64 { return cubic(x[0]) },
			vec.Of(0.0), vec.Of(10.0), vec.Of(5.773502691896258), 23},
		{"golden/cubic", GoldenSection, func(x vec.Vector[float64]) float64 { return cubic(x[0]) },
			vec.Of(0.0), vec.Of(10.0), vec.Of(5.773502691896258), 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDescent(tt.method, diffStep, tolerance, tt.min, tt.max, tt.f)
			require.NoError(t, err)

			var stats Stats
			got := d.FindMinimum(&stats)

			assert.LessOrEqual(t, vec.Distance(got, tt.want), tolerance, "got %v", got)
			assert.Equal(t, tt.count, stats.Evaluations)
		})
	}
}

func TestDescent_SingleSweep(t *testing.T) {
	// A coupled objective needs several sweeps to converge; one sweep must
	// stop after exactly one search per axis.
	coupled := func(x vec.Vector[float64]) float64 {
		return (x[0]-x[1])*(x[0]-x[1]) + (x[1]-1)*(x[1]-1)
	}
	d, err := NewDescent(GoldenSection, diffStep, 1e-6, vec.Of(0.0, 0.0), vec.Of(4.0, 4.0), coupled)
	require.NoError(t, err)

	rec := &Recorder{}
	got := d.FindMinimum(&Stats{Observer: rec})

	// axis 0 is searched with x1 = 0, so x0 lands near 0
	assert.InDelta(t, 0.0, got[0], 1e-5)
	assert.InDelta(t, 0.5, got[1], 1e-5)

	axis0 := rec.Axis(0)
	axis1 := rec.Axis(1)
	require.NotEmpty(t, axis0)
	require.NotEmpty(t, axis1)
	assert.Equal(t, len(rec.Brackets), len(axis0)+len(axis1))
	assert.Equal(t, 0, axis1[0].Iteration)
}

func TestDescent_Deterministic(t *testing.T) {
	d, err := NewDescent(Dichotomy, diffStep, tolerance, vec.Of(-1.0, 0.0), vec.Of(2.0, 6.0), bowl)
	require.NoError(t, err)

	var s1, s2 Stats
	first := d.FindMinimum(&s1)
	second := d.FindMinimum(&s2)

	assert.Equal(t, first, second)
	assert.Equal(t, s1.Evaluations, s2.Evaluations)
	assert.Equal(t, first, d.FindMinimum(nil))
}

func TestDescent_Gradient(t *testing.T) {
	lower := vec.Of(-1.0, 0.0)
	d, err := NewDescent(GoldenSection, diffStep, tolerance, lower, vec.Of(2.0, 6.0), bowl)
	require.NoError(t, err)

	grad := d.Gradient(lower)
	want := vec.Of(
		bowl(vec.Of(-1.0+diffStep, 0.0))-bowl(lower),
		bowl(vec.Of(-1.0, 0.0+diffStep))-bowl(lower),
	)
	assert.LessOrEqual(t, vec.Distance(grad, want), tolerance)
	assert.Equal(t, vec.Of(-1.0, 0.0), lower, "Gradient must not modify its argument")

	// gonum's forward difference is the same difference divided by h
	ref := fd.Gradient(nil, func(x []float64) float64 { return bowl(x) }, lower, &fd.Settings{
		Formula: fd.Forward,
		Step:    diffStep,
	})
	floats.Scale(diffStep, ref)
	assert.True(t, floats.EqualApprox(grad, ref, 1e-9), "grad=%v fd=%v", grad, ref)
}

func TestDescent_GradientEvaluations(t *testing.T) {
	calls := 0
	f := func(x vec.Vector[float64]) float64 {
		calls++
		return x[0] + 2*x[1] + 3*x[2]
	}
	d, err := NewDescent(Dichotomy, 0.5, tolerance, vec.Of(0.0, 0.0, 0.0), vec.Of(1.0, 1.0, 1.0), f)
	require.NoError(t, err)

	grad := d.Gradient(vec.Of(0.2, 0.2, 0.2))
	assert.Equal(t, 4, calls)
	assert.True(t, floats.EqualApprox(grad, []float64{0.5, 1, 1.5}, 1e-12))

	assert.Panics(t, func() { d.Gradient(vec.Of(1.0)) })
}

func TestNewDescent_Validation(t *testing.T) {
	_, err := NewDescent(Method(3), diffStep, tolerance, vec.Of(0.0), vec.Of(1.0), bowl)
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = NewDescent(Dichotomy, diffStep, 0, vec.Of(0.0), vec.Of(1.0), bowl)
	assert.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = NewDescent(Dichotomy, diffStep, tolerance, vec.Of(0.0), vec.Of(1.0, 2.0), bowl)
	assert.ErrorIs(t, err, vec.ErrDimensionMismatch)

	_, err = NewDescent(Dichotomy, diffStep, tolerance, vec.Of(0.0, 3.0), vec.Of(1.0, 2.0), bowl)
	assert.ErrorIs(t, err, ErrInvalidBracket)
	assert.ErrorContains(t, err, "axis 1")
}
