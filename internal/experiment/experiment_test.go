package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/logger"
	"github.com/san-kum/numkit/internal/optim"
	"github.com/san-kum/numkit/internal/quad"
)

func newExperiment() *Experiment {
	return New(NewRegistry(), logger.Discard())
}

func TestRun_MinimizeCounts(t *testing.T) {
	tests := []struct {
		problem string
		method  string
		count   int
	}{
		{"parabola", "dichotomy", 21},
		{"parabola", "golden", 14},
		{"cubic", "dichotomy", 23},
		{"cubic", "golden", 17},
	}

	e := newExperiment()
	for _, tt := range tests {
		t.Run(tt.problem+"/"+tt.method, func(t *testing.T) {
			cfg := &config.Config{
				Kind: config.KindMinimize, Problem: tt.problem, Method: tt.method, Eps: 0.01,
			}
			res, err := e.Run(context.Background(), cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.count, res.Evaluations)
			assert.LessOrEqual(t, res.Error, 0.01)
			assert.Equal(t, len(res.Brackets)-1, res.Steps)
			assert.Equal(t, tt.method, res.Method)
		})
	}
}

func TestRun_DescentCounts(t *testing.T) {
	shifted := map[string]float64{
		"a": 1, "b": 1, "rx": 2, "ry": 5,
		"xa": 0, "xb": 6, "ya": 0, "yb": 6,
	}
	tests := []struct {
		name    string
		problem string
		method  string
		params  map[string]float64
		count   int
	}{
		{"paraboloid/dichotomy", "paraboloid", "dichotomy", nil, 44},
		{"paraboloid/golden", "paraboloid", "golden", nil, 30},
		{"shifted/dichotomy", "paraboloid", "dichotomy", shifted, 47},
		{"shifted/golden", "paraboloid", "golden", shifted, 32},
		{"cubic/dichotomy", "cubic", "dichotomy", nil, 23},
		{"cubic/golden", "cubic", "golden", nil, 17},
	}

	e := newExperiment()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Kind: config.KindDescent, Problem: tt.problem, Method: tt.method,
				Step: 0.01, Eps: 0.01, Params: tt.params,
			}
			res, err := e.Run(context.Background(), cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.count, res.Evaluations)
			assert.LessOrEqual(t, res.Error, 0.01)
			assert.Len(t, res.Gradient, len(res.Value))
		})
	}
}

func TestRun_DescentBoxOverride(t *testing.T) {
	cfg := &config.Config{
		Kind: config.KindDescent, Problem: "paraboloid", Method: "golden",
		Step: 0.01, Eps: 1e-6, Min: []float64{0.5, 0.5}, Max: []float64{3, 3},
	}
	res, err := newExperiment().Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 0.5, 3, 3}, res.Bounds)
	assert.InDelta(t, 1.0, res.Value[0], 1e-5)
	assert.InDelta(t, 1.0, res.Value[1], 1e-5)
	assert.InDelta(t, 10.0, res.Objective, 1e-9)
}

func TestRun_Neuron(t *testing.T) {
	cfg := config.GetPreset("neuron", "fit")
	require.NotNil(t, cfg)

	res, err := newExperiment().Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Less(t, res.Error, 1e-4)
	assert.Less(t, res.Objective, 1e-7)
}

func TestRun_ScanFindsGlobalWell(t *testing.T) {
	cfg := &config.Config{
		Kind: config.KindMinimize, Problem: "doublewell", Method: "golden", Eps: 1e-6, Scan: 12,
	}
	res, err := newExperiment().Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, res.HasReference())
	assert.True(t, math.IsNaN(res.Error))
	assert.True(t, math.IsNaN(res.RelError))
	assert.InDelta(t, 2.03, res.Value[0], 0.01)
	assert.Equal(t, []float64{-3, 3}, res.Bounds)

	first := res.Brackets[0]
	assert.Equal(t, 1.5, first.Lo)
	assert.Equal(t, 2.5, first.Hi)
	assert.Equal(t, 13+2, first.Evaluations)
}

func TestRun_DescentGridScan(t *testing.T) {
	tests := []struct {
		method string
		count  int
	}{
		{"dichotomy", 49 + 32},
		{"golden", 49 + 26},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			cfg := &config.Config{
				Kind: config.KindDescent, Problem: "paraboloid", Method: tt.method,
				Step: 0.01, Eps: 0.01, Scan: 6,
			}
			res, err := newExperiment().Run(context.Background(), cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.count, res.Evaluations)
			assert.Equal(t, []float64{-1, 0, 2, 6}, res.Bounds)
			assert.InDelta(t, 1, res.Value[0], 0.01)
			assert.InDelta(t, 1, res.Value[1], 0.01)

			// the descent starts inside the grid cell box
			first := res.Brackets[0]
			assert.Equal(t, 0.5, first.Lo)
			assert.Equal(t, 1.5, first.Hi)
		})
	}

	_, err := newExperiment().Run(context.Background(), &config.Config{
		Kind: config.KindDescent, Problem: "paraboloid", Method: "golden", Step: 0.01, Eps: 0.01, Scan: 1,
	})
	assert.ErrorIs(t, err, optim.ErrInvalidGrid)
}

func TestRun_ODE(t *testing.T) {
	e := newExperiment()

	t.Run("euler decay", func(t *testing.T) {
		res, err := e.Run(context.Background(), config.GetPreset("decay", "euler"))
		require.NoError(t, err)

		assert.Less(t, res.Error, 1e-3)
		assert.Equal(t, res.Steps, res.Evaluations)
		assert.Contains(t, res.Metrics, "max_deviation")
		require.NotNil(t, res.Trajectory)
		assert.Equal(t, 0.0, res.Trajectory.Times[0])
		assert.Equal(t, 100.0, res.Trajectory.States[0][0])
	})

	t.Run("interval away from zero", func(t *testing.T) {
		cfg := &config.Config{
			Kind: config.KindODE, Problem: "decay", Method: "rk4",
			Step: 1.0 / 64, Interval: []float64{1, 3},
		}
		res, err := e.Run(context.Background(), cfg)
		require.NoError(t, err)

		// Y0 is taken at the interval start, so two time units elapse
		want := 100 * math.Exp(-6)
		assert.InDelta(t, want, res.Reference[0], 1e-12)
		assert.InDelta(t, want, res.Value[0], 1e-5)
		assert.Less(t, res.Error, 1e-5)
		assert.InDelta(t, res.Error/want, res.RelError, 1e-12)
		assert.Less(t, res.Metrics["max_deviation"], 1e-5)
		assert.InDelta(t, res.Error, res.Metrics["final_deviation"], 1e-12)
	})

	t.Run("stage counts", func(t *testing.T) {
		stages := map[string]int{"euler": 1, "rk4": 4, "rkf7": 6}
		for method, k := range stages {
			cfg := &config.Config{
				Kind: config.KindODE, Problem: "oscillator", Method: method,
				Step: 1.0 / 64, Interval: []float64{0, 1},
			}
			res, err := e.Run(context.Background(), cfg)
			require.NoError(t, err)

			assert.Equal(t, 64, res.Steps, method)
			assert.Equal(t, k*2*64, res.Evaluations, method)
			assert.Nil(t, res.Trajectory)
		}
	})

	t.Run("bounded metric", func(t *testing.T) {
		cfg := &config.Config{
			Kind: config.KindODE, Problem: "decay", Method: "euler", Step: 1,
			Interval: []float64{0, 10}, Params: map[string]float64{"bound": 1000},
		}
		res, err := e.Run(context.Background(), cfg)
		require.NoError(t, err)

		// y_k = 100·(-2)^k leaves ±1000 after k = 3
		assert.InDelta(t, 4.0/11, res.Metrics["bounded"], 1e-12)
	})
}

func TestRun_Quad(t *testing.T) {
	e := newExperiment()

	for _, name := range []string{"trapezoid", "rectangle"} {
		res, err := e.Run(context.Background(), config.GetPreset("gauss", name))
		require.NoError(t, err)
		assert.Less(t, res.Error, 1e-3, name)
		assert.InDelta(t, math.Sqrt(math.Pi), res.Value[0], 1e-3)
	}

	cfg := &config.Config{
		Kind: config.KindQuad, Problem: "poly", Method: "rectangle", Step: 1,
		Interval: []float64{0, 4}, Params: map[string]float64{"degree": 1},
	}
	res, err := e.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, res.Value)
	assert.Equal(t, 2.0, res.Error)
	assert.Equal(t, 5, res.Evaluations)

	cfg.Method = "trapezoid"
	res, err = e.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{8}, res.Value)
	assert.Equal(t, 0.0, res.Error)
}

func TestRun_Errors(t *testing.T) {
	e := newExperiment()
	ctx := context.Background()

	_, err := e.Run(ctx, &config.Config{Kind: config.KindMinimize, Problem: "parabola", Method: "golden"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = e.Run(ctx, &config.Config{Kind: config.KindMinimize, Problem: "rosenbrock", Method: "golden", Eps: 0.1})
	assert.ErrorIs(t, err, ErrUnknownProblem)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "rosenbrock", runErr.Problem)
	assert.Contains(t, err.Error(), "minimize rosenbrock/golden")

	_, err = e.Run(ctx, &config.Config{Kind: config.KindQuad, Problem: "gauss", Method: "simpson", Step: 0.1})
	assert.ErrorIs(t, err, quad.ErrUnimplementedMethod)

	_, err = e.Run(ctx, &config.Config{
		Kind: config.KindMinimize, Problem: "parabola", Method: "golden", Eps: 0.1,
		Interval: []float64{2, -1},
	})
	assert.ErrorIs(t, err, optim.ErrInvalidBracket)

	_, err = e.Run(ctx, &config.Config{
		Kind: config.KindDescent, Problem: "paraboloid", Method: "golden", Step: 0.01, Eps: 0.01,
		Min: []float64{0}, Max: []float64{6},
	})
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Contains(t, err.Error(), "paraboloid has 2 axes, box has 1")

	_, err = e.Run(ctx, &config.Config{
		Kind: config.KindODE, Problem: "decay", Method: "rk4", Step: 0.1,
		Params: map[string]float64{"amplitud": 5},
	})
	assert.ErrorIs(t, err, ErrInvalidParams)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.Run(canceled, config.DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare(t *testing.T) {
	cfg := &config.Config{
		Kind: config.KindODE, Problem: "decay", Method: "euler",
		Step: 1.0 / 64, Interval: []float64{0, 2},
	}
	results, err := newExperiment().Compare(context.Background(), cfg, []string{"euler", "rk4", "rkf7"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, m := range []string{"euler", "rk4", "rkf7"} {
		assert.Equal(t, m, results[i].Method)
		assert.Equal(t, 128, results[i].Steps)
	}
	assert.InDelta(t, 0.0335, results[0].Error, 1e-3)
	assert.Less(t, results[1].Error, 1e-6)
	assert.Less(t, results[2].Error, results[0].Error)
	assert.Equal(t, "euler", cfg.Method, "Compare must not modify its config")

	_, err = newExperiment().Compare(context.Background(), cfg, []string{"rk4", "midpoint"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = newExperiment().Compare(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConvergence(t *testing.T) {
	e := newExperiment()
	steps := []float64{1.0 / 16, 1.0 / 32, 1.0 / 64}

	for method, want := range map[string]float64{"euler": 0.9, "rk4": 4.1} {
		cfg := &config.Config{
			Kind: config.KindODE, Problem: "decay", Method: method, Interval: []float64{0, 2}, Every: 5,
		}
		results, orders, err := e.Convergence(context.Background(), cfg, steps)
		require.NoError(t, err)
		require.Len(t, results, 3)
		require.Len(t, orders, 3)

		assert.True(t, math.IsNaN(orders[0]))
		assert.InDelta(t, want, orders[1], 0.25, method)
		assert.InDelta(t, want, orders[2], 0.25, method)
		assert.Nil(t, results[0].Trajectory)
	}

	_, _, err := e.Convergence(context.Background(), config.DefaultConfig(), steps)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
