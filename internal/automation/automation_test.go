package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/experiment"
	"github.com/san-kum/numkit/internal/logger"
	"github.com/san-kum/numkit/internal/storage"
)

const scenarioYAML = `
name: minima
description: cubic then parabola
steps:
  - kind: minimize
    problem: cubic
    method: golden
    eps: 0.01
    save: true
  - problem: parabola
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newExperiment() *experiment.Experiment {
	return experiment.New(experiment.NewRegistry(), logger.Discard())
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "minima", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.True(t, sc.Steps[0].Save)
	assert.Equal(t, "cubic", sc.Steps[0].Problem)

	// omitted fields keep their defaults
	second := sc.Steps[1]
	assert.False(t, second.Save)
	assert.Equal(t, config.KindMinimize, second.Kind)
	assert.Equal(t, "golden", second.Method)
	assert.Equal(t, config.DefaultEps, second.Eps)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadScenario(writeScenario(t, "steps: [1, 2"))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	st := storage.New(t.TempDir())
	require.NoError(t, st.Init())

	results, err := RunScenario(context.Background(), sc, newExperiment(), st, logger.Discard())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 17, results[0].Result.Evaluations)
	assert.NotEmpty(t, results[0].RunID)
	assert.Equal(t, 14, results[1].Result.Evaluations)
	assert.Empty(t, results[1].RunID)

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, results[0].RunID, runs[0].ID)
}

func TestRunScenarioStopsAtFailure(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Config: *config.GetPreset("parabola", "golden")},
		{Config: config.Config{Kind: config.KindQuad, Problem: "nope", Method: "trapezoid", Step: 0.1}},
		{Config: *config.GetPreset("cubic", "golden")},
	}}

	results, err := RunScenario(context.Background(), sc, newExperiment(), nil, logger.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, experiment.ErrUnknownProblem)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, results, 1)
}

func TestRunScenarioSaveWithoutStore(t *testing.T) {
	step := ScenarioStep{Config: *config.GetPreset("parabola", "golden"), Save: true}
	_, err := RunScenario(context.Background(), &Scenario{Steps: []ScenarioStep{step}}, newExperiment(), nil, nil)
	assert.Error(t, err)
}

func TestRunScenarioEmpty(t *testing.T) {
	_, err := RunScenario(context.Background(), &Scenario{}, newExperiment(), nil, nil)
	assert.ErrorIs(t, err, ErrEmptyScenario)
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Base:     config.GetPreset("parabola", "golden"),
		Param:    "rx",
		Min:      0,
		Max:      1,
		NumSteps: 3,
	}

	results, err := RunSweep(context.Background(), sweep, newExperiment(), logger.Discard())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, want := range []float64{0, 0.5, 1} {
		r := results[i]
		assert.Equal(t, want, r.ParamValue)
		assert.InDelta(t, want, r.Value[0], config.DefaultEps)
		assert.LessOrEqual(t, r.Error, config.DefaultEps)
		assert.Equal(t, 14, r.Evaluations)
	}
	assert.Nil(t, sweep.Base.Params)
}

func TestRunSweepValidation(t *testing.T) {
	base := config.GetPreset("parabola", "golden")

	_, err := RunSweep(context.Background(), &ParameterSweep{Base: base, Param: "rx", NumSteps: 1}, newExperiment(), nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = RunSweep(context.Background(), &ParameterSweep{Base: base, NumSteps: 3}, newExperiment(), nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunSweepUnknownParam(t *testing.T) {
	sweep := &ParameterSweep{
		Base:     config.GetPreset("parabola", "golden"),
		Param:    "rxx",
		Min:      0,
		Max:      1,
		NumSteps: 3,
	}

	results, err := RunSweep(context.Background(), sweep, newExperiment(), logger.Discard())
	assert.ErrorIs(t, err, experiment.ErrInvalidParams)
	assert.Empty(t, results)
}
