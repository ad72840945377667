package storage

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/san-kum/numkit/internal/experiment"
)

// ExportData is the full JSON form of a result, series included.
type ExportData struct {
	RunMetadata
	Series *Series `json:"series,omitempty"`
}

func (d ExportData) MarshalJSON() ([]byte, error) {
	type series struct {
		Header []string  `json:"header"`
		Rows   [][]Float `json:"rows"`
	}
	type meta RunMetadata
	out := struct {
		meta
		Series *series `json:"series,omitempty"`
	}{meta: meta(d.RunMetadata)}

	if d.Series != nil {
		out.Series = &series{Header: d.Series.Header, Rows: make([][]Float, len(d.Series.Rows))}
		for i, row := range d.Series.Rows {
			out.Series.Rows[i] = floats(row)
		}
	}
	return json.Marshal(out)
}

// ExportJSON writes res to w as indented JSON.
func ExportJSON(w io.Writer, res *experiment.Result, params map[string]float64) error {
	data := ExportData{
		RunMetadata: metadataFor("", time.Now(), res, params),
		Series:      SeriesOf(res),
	}

	return encode(w, data)
}

// Export writes a saved run, series included when present, to w as
// indented JSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil && !errors.Is(err, ErrNoSeries) {
		return err
	}
	return encode(w, ExportData{RunMetadata: *meta, Series: series})
}

func encode(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
