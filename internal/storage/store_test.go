package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/experiment"
	"github.com/san-kum/numkit/internal/logger"
)

func run(t *testing.T, cfg *config.Config) *experiment.Result {
	t.Helper()
	res, err := experiment.New(experiment.NewRegistry(), logger.Discard()).Run(context.Background(), cfg)
	require.NoError(t, err)
	return res
}

func newStore(t *testing.T) *Store {
	t.Helper()
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	return st
}

func TestStore_SaveLoadODE(t *testing.T) {
	st := newStore(t)

	cfg := &config.Config{
		Kind: config.KindODE, Problem: "oscillator", Method: "rk4",
		Step: 1.0 / 64, Interval: []float64{0, 1}, Every: 8,
	}
	res := run(t, cfg)

	runID, err := st.Save(res, cfg.Params)
	require.NoError(t, err)
	assert.Contains(t, runID, "ode_oscillator_")

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "ode", meta.Kind)
	assert.Equal(t, "rk4", meta.Method)
	assert.Equal(t, res.Value, Float64s(meta.Value))
	assert.Equal(t, res.Reference, Float64s(meta.Reference))
	assert.Equal(t, res.Error, float64(meta.Error))
	assert.Equal(t, res.Evaluations, meta.Evaluations)
	assert.Equal(t, res.Metrics["max_deviation"], float64(meta.Metrics["max_deviation"]))

	series, err := st.LoadSeries(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "y0", "y1"}, series.Header)
	require.Len(t, series.Rows, res.Trajectory.Len())
	assert.Equal(t, res.Trajectory.Times, series.Column("time"))
	assert.Equal(t, res.Trajectory.Component(1), series.Column("y1"))
	assert.Nil(t, series.Column("y2"))
}

func TestStore_SaveLoadBrackets(t *testing.T) {
	st := newStore(t)

	res := run(t, config.GetPreset("cubic", "golden"))

	runID, err := st.Save(res, nil)
	require.NoError(t, err)

	series, err := st.LoadSeries(runID)
	require.NoError(t, err)

	brackets, err := series.Brackets()
	require.NoError(t, err)
	assert.Equal(t, res.Brackets, brackets)
}

func TestStore_NoReference(t *testing.T) {
	st := newStore(t)

	res := run(t, &config.Config{
		Kind: config.KindMinimize, Problem: "doublewell", Method: "dichotomy", Eps: 0.001, Scan: 6,
	})
	runID, err := st.Save(res, nil)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(meta.Error)))
	assert.Nil(t, meta.Reference)
}

func TestStore_NoSeries(t *testing.T) {
	st := newStore(t)

	res := run(t, config.GetPreset("gauss", "trapezoid"))
	runID, err := st.Save(res, nil)
	require.NoError(t, err)

	_, err = st.LoadSeries(runID)
	assert.ErrorIs(t, err, ErrNoSeries)
}

func TestStore_List(t *testing.T) {
	st := newStore(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	res := run(t, config.GetPreset("parabola", "golden"))
	first, err := st.Save(res, nil)
	require.NoError(t, err)
	second, err := st.Save(res, nil)
	require.NoError(t, err)

	// junk is skipped
	require.NoError(t, os.MkdirAll(filepath.Join(st.baseDir, "broken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(st.baseDir, "broken", metadataFile), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(st.baseDir, "notes.txt"), nil, 0644))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestStore_ListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_LoadMissing(t *testing.T) {
	_, err := newStore(t).Load("missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFloat_JSON(t *testing.T) {
	in := []Float{1.5, Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1))}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, "NaN", "+Inf", "-Inf"]`, string(data))

	var out []Float
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 1.5, float64(out[0]))
	assert.True(t, math.IsNaN(float64(out[1])))
	assert.True(t, math.IsInf(float64(out[2]), 1))
	assert.True(t, math.IsInf(float64(out[3]), -1))

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &out[0]))
}

func TestExportJSON(t *testing.T) {
	res := run(t, &config.Config{
		Kind: config.KindMinimize, Problem: "doublewell", Method: "golden", Eps: 0.01,
	})

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, res, map[string]float64{"x": 1}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "doublewell", doc["problem"])
	assert.Equal(t, "NaN", doc["error"])
	assert.Equal(t, map[string]any{"x": 1.0}, doc["params"])

	series, ok := doc["series"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"axis", "iteration", "lo", "hi", "evaluations"}, series["header"])
	assert.Len(t, series["rows"], len(res.Brackets))
}

func TestStore_Export(t *testing.T) {
	st := newStore(t)

	res := run(t, config.GetPreset("gauss", "trapezoid"))
	runID, err := st.Save(res, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.Export(&buf, runID))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, runID, doc["id"])
	assert.Equal(t, "trapezoid", doc["method"])
	assert.NotContains(t, doc, "series")

	assert.Error(t, st.Export(&buf, "missing"))
}
