package storage

import (
	"fmt"

	"github.com/san-kum/numkit/internal/experiment"
	"github.com/san-kum/numkit/internal/optim"
)

// Series is a numeric table with a header row.
type Series struct {
	Header []string
	Rows   [][]float64
}

// Column returns the values of the named column, or nil.
func (s *Series) Column(name string) []float64 {
	idx := -1
	for i, h := range s.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, 0, len(s.Rows))
	for _, row := range s.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

// SeriesOf tabulates the trajectory or bracket history of res, or returns
// nil when it has neither.
func SeriesOf(res *experiment.Result) *Series {
	switch {
	case res.Trajectory != nil && res.Trajectory.Len() > 0:
		tr := res.Trajectory
		header := []string{"time"}
		for i := range tr.States[0] {
			header = append(header, fmt.Sprintf("y%d", i))
		}
		rows := make([][]float64, tr.Len())
		for k := range tr.Times {
			row := make([]float64, 0, len(header))
			row = append(row, tr.Times[k])
			row = append(row, tr.States[k]...)
			rows[k] = row
		}
		return &Series{Header: header, Rows: rows}

	case len(res.Brackets) > 0:
		return BracketSeries(res.Brackets)
	}
	return nil
}

var bracketHeader = []string{"axis", "iteration", "lo", "hi", "evaluations"}

func BracketSeries(brackets []optim.Bracket) *Series {
	rows := make([][]float64, len(brackets))
	for i, b := range brackets {
		rows[i] = []float64{float64(b.Axis), float64(b.Iteration), b.Lo, b.Hi, float64(b.Evaluations)}
	}
	return &Series{Header: append([]string(nil), bracketHeader...), Rows: rows}
}

// Brackets reads a series written by BracketSeries back.
func (s *Series) Brackets() ([]optim.Bracket, error) {
	if len(s.Header) != len(bracketHeader) || s.Header[0] != bracketHeader[0] {
		return nil, fmt.Errorf("storage: not a bracket series: %v", s.Header)
	}
	out := make([]optim.Bracket, len(s.Rows))
	for i, row := range s.Rows {
		if len(row) != len(bracketHeader) {
			return nil, fmt.Errorf("storage: bracket row %d has %d fields", i, len(row))
		}
		out[i] = optim.Bracket{
			Axis:        int(row[0]),
			Iteration:   int(row[1]),
			Lo:          row[2],
			Hi:          row[3],
			Evaluations: int(row[4]),
		}
	}
	return out, nil
}
