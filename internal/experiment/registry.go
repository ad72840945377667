package experiment

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate/testquad"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/integrators"
	"github.com/san-kum/numkit/internal/objective"
	"github.com/san-kum/numkit/internal/optim"
	"github.com/san-kum/numkit/internal/vec"
)

// Params are the numeric knobs of a problem, merged over its defaults. A
// name missing from the defaults is rejected.
type Params map[string]float64

func (p Params) merge(over map[string]float64) Params {
	out := make(Params, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// ODEProblem is an initial value problem on [T0, T1].
type ODEProblem struct {
	System integrators.System[float64]
	Y0     vec.Vector[float64]
	T0, T1 float64
	// Exact is the analytic solution, or nil.
	Exact func(t float64) []float64
}

// QuadProblem is a definite integral on [A, B].
type QuadProblem struct {
	F    func(float64) float64
	A, B float64
	// Exact returns the analytic integral on [a, b] when known.
	Exact func(a, b float64) (float64, bool)
}

// MinimizeProblem is a function with a bracket holding its minimum.
type MinimizeProblem struct {
	F      func(float64) float64
	XA, XB float64
	// Minimum is the analytic minimiser, or NaN.
	Minimum float64
}

// DescentProblem is a multivariate objective over a box.
type DescentProblem struct {
	F        optim.Objective[float64]
	Min, Max vec.Vector[float64]
	// Minimum is the analytic minimiser, or nil.
	Minimum vec.Vector[float64]
}

// Definition describes a named problem and how to build it.
type Definition[P any] struct {
	Name        string
	Description string
	Defaults    Params
	Build       func(Params) (P, error)
}

// Info summarises a problem for listings.
type Info struct {
	Name        string
	Kind        config.Kind
	Description string
	Defaults    Params
}

type Registry struct {
	odes     map[string]Definition[*ODEProblem]
	quads    map[string]Definition[*QuadProblem]
	minima   map[string]Definition[*MinimizeProblem]
	descents map[string]Definition[*DescentProblem]
}

func NewRegistry() *Registry {
	r := &Registry{
		odes:     make(map[string]Definition[*ODEProblem]),
		quads:    make(map[string]Definition[*QuadProblem]),
		minima:   make(map[string]Definition[*MinimizeProblem]),
		descents: make(map[string]Definition[*DescentProblem]),
	}

	r.AddODE(Definition[*ODEProblem]{
		Name:        "decay",
		Description: "y' = a·y, y(0) = amplitude",
		Defaults:    Params{"a": -3, "amplitude": 100, "t1": 2},
		Build:       buildDecay,
	})
	r.AddODE(Definition[*ODEProblem]{
		Name:        "oscillator",
		Description: "harmonic oscillator y'' = -ω²y as a linear system",
		Defaults:    Params{"omega": 3, "amplitude": 100, "phase": math.Pi / 3, "t1": 2},
		Build:       buildOscillator,
	})
	r.AddODE(Definition[*ODEProblem]{
		Name:        "logistic",
		Description: "y' = r·y·(1 - y/k), y(0) = y0",
		Defaults:    Params{"r": 1, "k": 10, "y0": 1, "t1": 5},
		Build:       buildLogistic,
	})

	r.AddQuad(Definition[*QuadProblem]{
		Name:        "gauss",
		Description: "∫ exp(-t²) dt on [-10, 10]",
		Build:       buildGauss,
	})
	r.AddQuad(Definition[*QuadProblem]{
		Name:        "sin",
		Description: "∫ sin(x) dx on [0, 1]",
		Build:       buildSin,
	})
	r.AddQuad(Definition[*QuadProblem]{
		Name:        "poly",
		Description: "∫ x^degree dx on [-1, 2]",
		Defaults:    Params{"degree": 3},
		Build:       buildPoly,
	})
	r.AddQuad(Definition[*QuadProblem]{
		Name:        "sqrt",
		Description: "∫ √x dx on [0, 1]",
		Build:       fixedIntegral(testquad.Sqrt()),
	})
	r.AddQuad(Definition[*QuadProblem]{
		Name:        "xexp",
		Description: "∫ x·exp(-x) dx on [0, 1]",
		Build:       fixedIntegral(testquad.XExpMinusX()),
	})

	r.AddMinimize(Definition[*MinimizeProblem]{
		Name:        "parabola",
		Description: "a·(x - root)² + d",
		Defaults:    paraboloidDefaults(),
		Build:       buildParabola,
	})
	r.AddMinimize(Definition[*MinimizeProblem]{
		Name:        "cubic",
		Description: "-(d²x - x³) on [0, d]",
		Defaults:    Params{"d": 10},
		Build:       buildCubic,
	})
	r.AddMinimize(Definition[*MinimizeProblem]{
		Name:        "doublewell",
		Description: "(x² - 4)² - x on [-3, 3], two local minima",
		Build:       buildDoubleWell,
	})

	r.AddDescent(Definition[*DescentProblem]{
		Name:        "paraboloid",
		Description: "a·(x - rx)² + b·(y - ry)² + d",
		Defaults:    paraboloidDefaults(),
		Build:       buildParaboloid,
	})
	r.AddDescent(Definition[*DescentProblem]{
		Name:        "cubic",
		Description: "-(d²x - x³) as a one-axis descent",
		Defaults:    Params{"d": 10},
		Build:       buildCubicDescent,
	})
	r.AddDescent(Definition[*DescentProblem]{
		Name:        "neuron",
		Description: "squared error of a two-input neuron over its weights",
		Defaults:    Params{"w0": 1.5, "w1": -0.5, "range": 3},
		Build:       buildNeuron,
	})

	return r
}

func (r *Registry) AddODE(d Definition[*ODEProblem])           { r.odes[d.Name] = d }
func (r *Registry) AddQuad(d Definition[*QuadProblem])         { r.quads[d.Name] = d }
func (r *Registry) AddMinimize(d Definition[*MinimizeProblem]) { r.minima[d.Name] = d }
func (r *Registry) AddDescent(d Definition[*DescentProblem])   { r.descents[d.Name] = d }

func (r *Registry) ODE(name string, params map[string]float64) (*ODEProblem, error) {
	return build(r.odes, config.KindODE, name, params)
}

func (r *Registry) Quad(name string, params map[string]float64) (*QuadProblem, error) {
	return build(r.quads, config.KindQuad, name, params)
}

func (r *Registry) Minimize(name string, params map[string]float64) (*MinimizeProblem, error) {
	return build(r.minima, config.KindMinimize, name, params)
}

func (r *Registry) Descent(name string, params map[string]float64) (*DescentProblem, error) {
	return build(r.descents, config.KindDescent, name, params)
}

// runnerParams are read by the experiment runner, not by a problem.
var runnerParams = map[string]bool{"bound": true}

func build[P any](defs map[string]Definition[P], kind config.Kind, name string, params map[string]float64) (P, error) {
	def, ok := defs[name]
	if !ok {
		var zero P
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownProblem, kind, name)
	}
	over := make(map[string]float64, len(params))
	for k, v := range params {
		if runnerParams[k] {
			continue
		}
		if _, ok := def.Defaults[k]; !ok {
			known := keys(def.Defaults)
			sort.Strings(known)
			var zero P
			return zero, fmt.Errorf("%w: %s %q has no parameter %q (known: %v)",
				ErrInvalidParams, kind, name, k, known)
		}
		over[k] = v
	}
	return def.Build(def.Defaults.merge(over))
}

// List returns the sorted problem names of a kind.
func (r *Registry) List(kind config.Kind) []string {
	var names []string
	switch kind {
	case config.KindODE:
		names = keys(r.odes)
	case config.KindQuad:
		names = keys(r.quads)
	case config.KindMinimize:
		names = keys(r.minima)
	case config.KindDescent:
		names = keys(r.descents)
	}
	sort.Strings(names)
	return names
}

// Infos lists every problem of a kind.
func (r *Registry) Infos(kind config.Kind) []Info {
	var out []Info
	for _, name := range r.List(kind) {
		var desc string
		var defaults Params
		switch kind {
		case config.KindODE:
			desc, defaults = r.odes[name].Description, r.odes[name].Defaults
		case config.KindQuad:
			desc, defaults = r.quads[name].Description, r.quads[name].Defaults
		case config.KindMinimize:
			desc, defaults = r.minima[name].Description, r.minima[name].Defaults
		case config.KindDescent:
			desc, defaults = r.descents[name].Description, r.descents[name].Defaults
		}
		out = append(out, Info{Name: name, Kind: kind, Description: desc, Defaults: defaults})
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func buildDecay(p Params) (*ODEProblem, error) {
	a, amp := p["a"], p["amplitude"]
	return &ODEProblem{
		System: integrators.System[float64]{
			func(_ float64, y vec.Vector[float64]) float64 { return a * y[0] },
		},
		Y0: vec.Of(amp),
		T1: p["t1"],
		Exact: func(t float64) []float64 {
			return []float64{amp * math.Exp(a*t)}
		},
	}, nil
}

func buildOscillator(p Params) (*ODEProblem, error) {
	w, amp, phi := p["omega"], p["amplitude"], p["phase"]

	sys, err := integrators.LinearSystem(mat.NewDense(2, 2, []float64{
		0, 1,
		-w * w, 0,
	}))
	if err != nil {
		return nil, err
	}

	return &ODEProblem{
		System: sys,
		Y0:     vec.Of(amp*math.Sin(phi), w*amp*math.Cos(phi)),
		T1:     p["t1"],
		Exact: func(t float64) []float64 {
			return []float64{amp * math.Sin(w*t+phi), w * amp * math.Cos(w*t+phi)}
		},
	}, nil
}

func buildLogistic(p Params) (*ODEProblem, error) {
	r, k, y0 := p["r"], p["k"], p["y0"]
	if k == 0 || y0 == 0 {
		return nil, fmt.Errorf("%w: logistic needs nonzero k and y0", ErrInvalidParams)
	}
	return &ODEProblem{
		System: integrators.System[float64]{
			func(_ float64, y vec.Vector[float64]) float64 { return r * y[0] * (1 - y[0]/k) },
		},
		Y0: vec.Of(y0),
		T1: p["t1"],
		Exact: func(t float64) []float64 {
			return []float64{k / (1 + (k/y0-1)*math.Exp(-r*t))}
		},
	}, nil
}

func buildGauss(Params) (*QuadProblem, error) {
	return &QuadProblem{
		F: func(t float64) float64 { return math.Exp(-t * t) },
		A: -10,
		B: 10,
		Exact: func(a, b float64) (float64, bool) {
			return math.Sqrt(math.Pi) / 2 * (math.Erf(b) - math.Erf(a)), true
		},
	}, nil
}

func buildSin(Params) (*QuadProblem, error) {
	in := testquad.Sin()
	return &QuadProblem{
		F: in.F,
		A: in.A,
		B: in.B,
		Exact: func(a, b float64) (float64, bool) {
			return math.Cos(a) - math.Cos(b), true
		},
	}, nil
}

func buildPoly(p Params) (*QuadProblem, error) {
	degree := p["degree"]
	if degree < 0 || degree != math.Trunc(degree) {
		return nil, fmt.Errorf("%w: degree %v", ErrInvalidParams, degree)
	}
	in := testquad.Poly(int(degree))
	return &QuadProblem{
		F: in.F,
		A: in.A,
		B: in.B,
		Exact: func(a, b float64) (float64, bool) {
			return (math.Pow(b, degree+1) - math.Pow(a, degree+1)) / (degree + 1), true
		},
	}, nil
}

// fixedIntegral knows its value only on its own interval.
func fixedIntegral(in testquad.Integral) func(Params) (*QuadProblem, error) {
	return func(Params) (*QuadProblem, error) {
		return &QuadProblem{
			F: in.F,
			A: in.A,
			B: in.B,
			Exact: func(a, b float64) (float64, bool) {
				return in.Value, a == in.A && b == in.B
			},
		}, nil
	}
}

func paraboloidDefaults() Params {
	p := objective.DefaultParabola()
	return Params{
		"a": p.A, "b": p.B, "d": p.D,
		"rx": p.RootX, "ry": p.RootY,
		"xa": p.XA, "xb": p.XB,
		"ya": p.YA, "yb": p.YB,
	}
}

func parabolaFrom(p Params) objective.Parabola {
	return objective.Parabola{
		A: p["a"], B: p["b"], D: p["d"],
		RootX: p["rx"], RootY: p["ry"],
		XA: p["xa"], XB: p["xb"],
		YA: p["ya"], YB: p["yb"],
	}
}

func buildParabola(p Params) (*MinimizeProblem, error) {
	par := parabolaFrom(p)
	xa, xb := par.Bracket()
	return &MinimizeProblem{F: par.At, XA: xa, XB: xb, Minimum: par.RootX}, nil
}

func buildCubic(p Params) (*MinimizeProblem, error) {
	c := objective.Cubic{D: p["d"]}
	xa, xb := c.Bracket()
	return &MinimizeProblem{F: c.At, XA: xa, XB: xb, Minimum: c.Minimum()}, nil
}

func buildDoubleWell(Params) (*MinimizeProblem, error) {
	return &MinimizeProblem{
		F:       func(x float64) float64 { return (x*x-4)*(x*x-4) - x },
		XA:      -3,
		XB:      3,
		Minimum: math.NaN(),
	}, nil
}

func buildParaboloid(p Params) (*DescentProblem, error) {
	par := parabolaFrom(p)
	lo, hi := par.Box()
	return &DescentProblem{F: par.At2, Min: lo, Max: hi, Minimum: par.Minimum()}, nil
}

func buildCubicDescent(p Params) (*DescentProblem, error) {
	c := objective.Cubic{D: p["d"]}
	xa, xb := c.Bracket()
	return &DescentProblem{F: c.AtVec, Min: vec.Of(xa), Max: vec.Of(xb), Minimum: vec.Of(c.Minimum())}, nil
}

// neuronInputs are orthogonal per weight so that one sweep recovers the
// generating weights.
var neuronInputs = []vec.Vector[float64]{
	vec.Of(1.0, 0.0),
	vec.Of(0.0, 1.0),
	vec.Of(2.0, 0.0),
	vec.Of(0.0, -1.0),
}

func buildNeuron(p Params) (*DescentProblem, error) {
	weights := vec.Of(p["w0"], p["w1"])
	rng := p["range"]
	if !(rng > 0) {
		return nil, fmt.Errorf("%w: range %v", ErrInvalidParams, rng)
	}

	samples, err := objective.SamplesFrom(weights, neuronInputs)
	if err != nil {
		return nil, err
	}
	fit, err := objective.NewFit(samples)
	if err != nil {
		return nil, err
	}

	return &DescentProblem{
		F:       fit.Objective(),
		Min:     vec.Of(-rng, -rng),
		Max:     vec.Of(rng, rng),
		Minimum: weights,
	}, nil
}
