package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/integrators"
	"github.com/san-kum/numkit/internal/metrics"
	"github.com/san-kum/numkit/internal/optim"
	"github.com/san-kum/numkit/internal/quad"
	"github.com/san-kum/numkit/internal/vec"
)

// Result is the outcome of one run. Reference is nil when the problem has
// no analytic answer, and Error is NaN then.
type Result struct {
	Kind      config.Kind
	Problem   string
	Method    string
	Step      float64
	Eps       float64
	Bounds    []float64
	Value     []float64
	Reference []float64
	Error     float64
	RelError  float64

	// Evaluations counts calls of the problem's function: derivative
	// components for ODEs, integrand samples, objective calls.
	Evaluations int
	Steps       int

	// Objective and Gradient are set by minimize and descent runs.
	Objective float64
	Gradient  []float64

	Trajectory *integrators.Trajectory[float64]
	Brackets   []optim.Bracket
	Metrics    map[string]float64
	Elapsed    time.Duration
}

// HasReference reports whether the error could be computed.
func (r *Result) HasReference() bool { return r.Reference != nil }

// Experiment runs configured problems from a registry.
type Experiment struct {
	registry *Registry
	log      *slog.Logger
}

func New(registry *Registry, log *slog.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Experiment{registry: registry, log: log}
}

func (e *Experiment) Registry() *Registry { return e.registry }

// Run validates cfg, checks ctx once and runs the problem to completion.
// The numeric loops are not interruptible.
func (e *Experiment) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, e.wrap(cfg, err)
	}

	log := e.log.With("kind", cfg.Kind, "problem", cfg.Problem, "method", cfg.Method)
	log.Debug("run started", "step", cfg.Step, "eps", cfg.Eps)

	start := time.Now()
	var (
		res *Result
		err error
	)
	switch cfg.Kind {
	case config.KindODE:
		res, err = e.runODE(cfg)
	case config.KindQuad:
		res, err = e.runQuad(cfg)
	case config.KindMinimize:
		res, err = e.runMinimize(cfg)
	case config.KindDescent:
		res, err = e.runDescent(cfg)
	}
	if err != nil {
		log.Debug("run failed", "error", err)
		return nil, e.wrap(cfg, err)
	}

	res.Kind = cfg.Kind
	res.Problem = cfg.Problem
	res.Method = cfg.Method
	res.Elapsed = time.Since(start)
	res.Error, res.RelError = math.NaN(), math.NaN()
	if res.HasReference() {
		res.Error = metrics.AbsError(res.Value, res.Reference)
		res.RelError = metrics.RelError(res.Value, res.Reference)
	}

	log.Debug("run finished",
		"value", res.Value,
		"error", res.Error,
		"evaluations", res.Evaluations,
		"elapsed", res.Elapsed)
	return res, nil
}

// Compare runs cfg once per method, concurrently, and returns the results
// in the order of methods.
func (e *Experiment) Compare(ctx context.Context, cfg *config.Config, methods []string) ([]*Result, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: no methods to compare", config.ErrInvalidConfig)
	}

	results := make([]*Result, len(methods))
	errs := make([]error, len(methods))

	var wg sync.WaitGroup
	for i, m := range methods {
		wg.Add(1)
		go func(idx int, method string) {
			defer wg.Done()

			cfgCopy := cfg.Clone()
			cfgCopy.Method = method
			results[idx], errs[idx] = e.Run(ctx, cfgCopy)
		}(i, m)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Convergence runs an ODE or quadrature problem at each step size and
// returns the results together with the observed order between
// consecutive runs (NaN where it cannot be estimated).
func (e *Experiment) Convergence(ctx context.Context, cfg *config.Config, steps []float64) ([]*Result, []float64, error) {
	if cfg.Kind != config.KindODE && cfg.Kind != config.KindQuad {
		return nil, nil, fmt.Errorf("%w: convergence needs an ode or quad run, got %q",
			config.ErrInvalidConfig, cfg.Kind)
	}

	results := make([]*Result, 0, len(steps))
	orders := make([]float64, 0, len(steps))
	for i, h := range steps {
		c := cfg.Clone()
		c.Step = h
		c.Every = 0
		res, err := e.Run(ctx, c)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)

		order := math.NaN()
		if i > 0 {
			order = metrics.ObservedOrder(results[i-1].Error, res.Error, steps[i-1]/h)
		}
		orders = append(orders, order)
	}
	return results, orders, nil
}

func (e *Experiment) wrap(cfg *config.Config, err error) error {
	return &RunError{Kind: cfg.Kind, Problem: cfg.Problem, Method: cfg.Method, Wrapped: err}
}

// stepObserver feeds integrator steps to the trajectory and the metrics.
type stepObserver struct {
	trajectory *integrators.Trajectory[float64]
	metrics    []metrics.Metric
}

func (o *stepObserver) OnStep(t float64, y vec.Vector[float64]) {
	if o.trajectory != nil {
		o.trajectory.OnStep(t, y)
	}
	for _, m := range o.metrics {
		m.Observe(t, y)
	}
}

func (e *Experiment) runODE(cfg *config.Config) (*Result, error) {
	p, err := e.registry.ODE(cfg.Problem, cfg.Params)
	if err != nil {
		return nil, err
	}
	method, err := integrators.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	t0, t1 := p.T0, p.T1
	if lo, hi, ok := cfg.Bounds(); ok {
		t0, t1 = lo, hi
	}

	calls := 0
	sys := make(integrators.System[float64], len(p.System))
	for i, f := range p.System {
		sys[i] = func(t float64, y vec.Vector[float64]) float64 {
			calls++
			return f(t, y)
		}
	}

	solver, err := integrators.New(method, cfg.Step, p.Y0, sys)
	if err != nil {
		return nil, err
	}

	obs := &stepObserver{}
	if cfg.Every > 0 {
		obs.trajectory = integrators.NewTrajectory[float64](cfg.Every)
	}
	// Y0 is the state at p.T0 and the problems are autonomous, so the
	// exact solution is evaluated at the elapsed time.
	var exact func(t float64) []float64
	if p.Exact != nil {
		exact = func(t float64) []float64 { return p.Exact(p.T0 + t - t0) }
	}

	var deviation *metrics.Deviation
	if exact != nil {
		deviation = metrics.NewDeviation(exact)
		obs.metrics = append(obs.metrics, deviation)
	}
	if bound := cfg.Param("bound", 0); bound > 0 {
		obs.metrics = append(obs.metrics, metrics.NewBounded(bound))
	}

	end, err := solver.IntegrateObserved(t0, t1, p.Y0, obs)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Step:        cfg.Step,
		Bounds:      []float64{t0, t1},
		Value:       end.Float64s(),
		Evaluations: calls,
		Steps:       solver.Steps(t0, t1),
		Trajectory:  obs.trajectory,
		Metrics:     make(map[string]float64),
	}
	if exact != nil {
		res.Reference = exact(t1)
	}
	for _, m := range obs.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	if deviation != nil {
		res.Metrics["final_deviation"] = deviation.Last()
	}
	return res, nil
}

func (e *Experiment) runQuad(cfg *config.Config) (*Result, error) {
	p, err := e.registry.Quad(cfg.Problem, cfg.Params)
	if err != nil {
		return nil, err
	}
	method, err := quad.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	a, b := p.A, p.B
	if lo, hi, ok := cfg.Bounds(); ok {
		a, b = lo, hi
	}

	rule, err := quad.New(method, cfg.Step, p.F)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Step:        cfg.Step,
		Bounds:      []float64{a, b},
		Value:       []float64{rule.Integrate(a, b)},
		Evaluations: rule.Samples(a, b),
	}
	if p.Exact != nil {
		if v, ok := p.Exact(a, b); ok {
			res.Reference = []float64{v}
		}
	}
	return res, nil
}

func (e *Experiment) runMinimize(cfg *config.Config) (*Result, error) {
	p, err := e.registry.Minimize(cfg.Problem, cfg.Params)
	if err != nil {
		return nil, err
	}
	method, err := optim.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	xa, xb := p.XA, p.XB
	if lo, hi, ok := cfg.Bounds(); ok {
		xa, xb = lo, hi
	}
	bounds := []float64{xa, xb}

	rec := &optim.Recorder{}
	stats := optim.Stats{Observer: rec}
	if cfg.Scan > 0 {
		xa, xb, err = optim.Scan(p.F, xa, xb, cfg.Scan, &stats)
		if err != nil {
			return nil, err
		}
	}

	x, err := optim.FindMinimum(method, xa, xb, cfg.Eps, p.F, &stats)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Eps:         cfg.Eps,
		Bounds:      bounds,
		Value:       []float64{x},
		Evaluations: stats.Evaluations,
		Steps:       len(rec.Brackets) - 1,
		Objective:   p.F(x),
		Brackets:    rec.Brackets,
	}
	if !math.IsNaN(p.Minimum) {
		res.Reference = []float64{p.Minimum}
	}
	return res, nil
}

func (e *Experiment) runDescent(cfg *config.Config) (*Result, error) {
	p, err := e.registry.Descent(cfg.Problem, cfg.Params)
	if err != nil {
		return nil, err
	}
	method, err := optim.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	lo, hi := p.Min, p.Max
	if len(cfg.Min) > 0 {
		if len(cfg.Min) != len(p.Min) || len(cfg.Max) != len(p.Min) {
			return nil, fmt.Errorf("%w: %s has %d axes, box has %d",
				ErrInvalidParams, cfg.Problem, len(p.Min), len(cfg.Min))
		}
		lo, hi = vec.Of(cfg.Min...), vec.Of(cfg.Max...)
	}
	bounds := append(lo.Float64s(), hi.Float64s()...)

	rec := &optim.Recorder{}
	stats := optim.Stats{Observer: rec}
	if cfg.Scan > 0 {
		grid, err := optim.NewGridSearch[float64](cfg.Scan)
		if err != nil {
			return nil, err
		}
		box, err := grid.Search(p.F, lo, hi, &stats)
		if err != nil {
			return nil, err
		}
		lo, hi = box.Min, box.Max
	}

	d, err := optim.NewDescent(method, cfg.Step, cfg.Eps, lo, hi, p.F)
	if err != nil {
		return nil, err
	}
	point := d.FindMinimum(&stats)

	res := &Result{
		Step:        cfg.Step,
		Eps:         cfg.Eps,
		Bounds:      bounds,
		Value:       point.Float64s(),
		Evaluations: stats.Evaluations,
		Steps:       d.Dim(),
		Objective:   p.F(point),
		Gradient:    d.Gradient(point).Float64s(),
		Brackets:    rec.Brackets,
	}
	if p.Minimum != nil {
		res.Reference = p.Minimum.Float64s()
	}
	return res, nil
}
