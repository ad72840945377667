package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/numkit/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrNoSeries = errors.New("storage: run has no series")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Problem     string             `json:"problem"`
	Method      string             `json:"method"`
	Timestamp   time.Time          `json:"timestamp"`
	Step        float64            `json:"step,omitempty"`
	Eps         float64            `json:"eps,omitempty"`
	Bounds      []Float            `json:"bounds"`
	Params      map[string]float64 `json:"params,omitempty"`
	Value       []Float            `json:"value"`
	Reference   []Float            `json:"reference,omitempty"`
	Error       Float              `json:"error"`
	Objective   Float              `json:"objective,omitempty"`
	Gradient    []Float            `json:"gradient,omitempty"`
	Evaluations int                `json:"evaluations"`
	Steps       int                `json:"steps"`
	Metrics     map[string]Float   `json:"metrics,omitempty"`
	Elapsed     time.Duration      `json:"elapsed_ns"`
}

func metadataFor(id string, ts time.Time, res *experiment.Result, params map[string]float64) RunMetadata {
	meta := RunMetadata{
		ID:          id,
		Kind:        string(res.Kind),
		Problem:     res.Problem,
		Method:      res.Method,
		Timestamp:   ts,
		Step:        res.Step,
		Eps:         res.Eps,
		Bounds:      floats(res.Bounds),
		Params:      params,
		Value:       floats(res.Value),
		Reference:   floats(res.Reference),
		Error:       Float(res.Error),
		Objective:   Float(res.Objective),
		Gradient:    floats(res.Gradient),
		Evaluations: res.Evaluations,
		Steps:       res.Steps,
		Elapsed:     res.Elapsed,
	}
	if len(res.Metrics) > 0 {
		meta.Metrics = make(map[string]Float, len(res.Metrics))
		for k, v := range res.Metrics {
			meta.Metrics[k] = Float(v)
		}
	}
	return meta
}

// Save writes the metadata of res and, when the run recorded one, its
// series: the trajectory of an ODE run or the bracket history of a
// minimisation.
func (s *Store) Save(res *experiment.Result, params map[string]float64) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%s_%d", res.Kind, res.Problem, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), metadataFor(runID, ts, res, params)); err != nil {
		return "", err
	}

	series := SeriesOf(res)
	if series == nil {
		return runID, nil
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), series); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable run, newest first. Directories without
// valid metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSeries reads the series of a run. Runs saved without one return
// ErrNoSeries.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSeries, runID)
		}
		return nil, err
	}
	defer file.Close()

	return readSeries(file)
}

func writeSeries(path string, series *Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(series.Header); err != nil {
		return err
	}
	row := make([]string, len(series.Header))
	for _, values := range series.Rows {
		for j, v := range values {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row[:len(values)]); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readSeries(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Series{}, nil
	}

	series := &Series{
		Header: records[0],
		Rows:   make([][]float64, 0, len(records)-1),
	}
	for i, record := range records[1:] {
		values := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: series row %d column %d: %w", i+1, j, err)
			}
			values[j] = v
		}
		series.Rows = append(series.Rows, values)
	}
	return series, nil
}
