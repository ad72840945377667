package optim

// Bracket is the search interval after an iteration.
type Bracket struct {
	Axis        int     `json:"axis"`
	Iteration   int     `json:"iteration"`
	Lo          float64 `json:"lo"`
	Hi          float64 `json:"hi"`
	Evaluations int     `json:"evaluations"`
}

func (b Bracket) Width() float64 { return b.Hi - b.Lo }
func (b Bracket) Mid() float64   { return (b.Lo + b.Hi) / 2 }

type Observer interface {
	OnBracket(b Bracket)
}

// Stats counts objective evaluations of one search or descent call.
type Stats struct {
	Evaluations int
	Observer    Observer

	axis int
}

func (s *Stats) count(n int) {
	if s != nil {
		s.Evaluations += n
	}
}

func (s *Stats) observe(iteration int, lo, hi float64) {
	if s == nil || s.Observer == nil {
		return
	}
	s.Observer.OnBracket(Bracket{
		Axis:        s.axis,
		Iteration:   iteration,
		Lo:          lo,
		Hi:          hi,
		Evaluations: s.Evaluations,
	})
}

// Recorder is an Observer that keeps every bracket.
type Recorder struct {
	Brackets []Bracket
}

func (r *Recorder) OnBracket(b Bracket) {
	r.Brackets = append(r.Brackets, b)
}

// Axis returns the brackets recorded for one axis.
func (r *Recorder) Axis(i int) []Bracket {
	var out []Bracket
	for _, b := range r.Brackets {
		if b.Axis == i {
			out = append(out, b)
		}
	}
	return out
}
