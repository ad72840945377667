package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/numkit/internal/automation"
	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/experiment"
	"github.com/san-kum/numkit/internal/export"
	"github.com/san-kum/numkit/internal/integrators"
	"github.com/san-kum/numkit/internal/logger"
	"github.com/san-kum/numkit/internal/optim"
	"github.com/san-kum/numkit/internal/quad"
	"github.com/san-kum/numkit/internal/storage"
	"github.com/san-kum/numkit/internal/viz"
	"github.com/spf13/cobra"
)

var defaultMethods = map[config.Kind]string{
	config.KindODE:      integrators.RK4.String(),
	config.KindQuad:     quad.Trapezoid.String(),
	config.KindMinimize: optim.GoldenSection.String(),
	config.KindDescent:  optim.GoldenSection.String(),
}

// methodsOf lists every method name usable with kind.
func methodsOf(kind config.Kind) []string {
	var names []string
	switch kind {
	case config.KindODE:
		for _, m := range integrators.Methods() {
			names = append(names, m.String())
		}
	case config.KindQuad:
		for _, m := range quad.Methods() {
			names = append(names, m.String())
		}
	case config.KindMinimize, config.KindDescent:
		for _, m := range optim.Methods() {
			names = append(names, m.String())
		}
	}
	return names
}

// buildConfig resolves the run configuration. A preset wins over the
// config file, and flags set on the command line win over both.
func buildConfig(cmd *cobra.Command, kind config.Kind, problem string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	fromFile := false

	if preset != "" {
		cfg = config.GetPreset(problem, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(problem))
		}
		if cfg.Kind != kind {
			return nil, fmt.Errorf("preset %s/%s is a %s run, not %s", problem, preset, cfg.Kind, kind)
		}
	} else if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		fromFile = true
	}

	if cfg.Kind != kind {
		if fromFile {
			logger.Warn("config file kind ignored", "file", configFile, "kind", cfg.Kind, "command", kind)
		}
		cfg.Kind = kind
		cfg.Method = defaultMethods[kind]
	}
	cfg.Problem = problem
	if cfg.Step == 0 {
		cfg.Step = config.DefaultStep
	}
	if cfg.Eps == 0 {
		cfg.Eps = config.DefaultEps
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("eps") {
		cfg.Eps = eps
	}
	if flags.Changed("every") {
		cfg.Every = every
	}
	if flags.Changed("scan") {
		cfg.Scan = scan
	}
	if flags.Changed("min") {
		cfg.Min = lower
	}
	if flags.Changed("max") {
		cfg.Max = upper
	}
	if flags.Changed("from") || flags.Changed("to") {
		lo, hi, ok := cfg.Bounds()
		if !ok {
			lo, hi = math.NaN(), math.NaN()
		}
		if flags.Changed("from") {
			lo = from
		}
		if flags.Changed("to") {
			hi = to
		}
		if math.IsNaN(lo) || math.IsNaN(hi) {
			return nil, fmt.Errorf("--from and --to must be given together")
		}
		cfg.Interval = []float64{lo, hi}
	}

	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 && cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(overrides))
	}
	for k, v := range overrides {
		cfg.Params[k] = v
	}

	return cfg, cfg.Validate()
}

// parseParams reads name=value pairs.
func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid param %q: want name=value", p)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid param %q: %w", p, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func runKind(kind config.Kind) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, kind, args[0])
		if err != nil {
			return err
		}

		exp := newExperiment(cmd)
		res, err := exp.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		printResult(res)

		if plot {
			if err := plotResult(exp, cfg, res); err != nil {
				return err
			}
		}

		if svgPath != "" {
			if err := writeCurve(svgPath, exp, cfg, res); err != nil {
				return err
			}
			fmt.Printf("\nwrote %s\n", svgPath)
		}

		if save {
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			runID, err := st.Save(res, cfg.Params)
			if err != nil {
				return err
			}
			fmt.Printf("\nsaved: %s\n", runID)
		}

		if explore {
			f, err := curveOf(exp, cfg)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s / %s", cfg.Problem, cfg.Method)
			return viz.RunExplorer(viz.NewExplorer(title, f, res.Brackets))
		}
		return nil
	}
}

func plotResult(exp *experiment.Experiment, cfg *config.Config, res *experiment.Result) error {
	switch res.Kind {
	case config.KindODE:
		tr := res.Trajectory
		if tr == nil || tr.Len() == 0 {
			return nil
		}
		series := make([][]float64, len(tr.States[0]))
		for i := range series {
			series[i] = tr.Component(i)
		}
		fmt.Println()
		fmt.Println(viz.PlotSeries(fmt.Sprintf("%s (%s)", res.Problem, res.Method), series...))

	case config.KindQuad:
		f, err := curveOf(exp, cfg)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(viz.PlotFunction(fmt.Sprintf("%s on [%g, %g]", res.Problem, res.Bounds[0], res.Bounds[1]),
			f, res.Bounds[0], res.Bounds[1], viz.DefaultPlotWidth))

	case config.KindMinimize:
		widths := make([]float64, len(res.Brackets))
		for i, b := range res.Brackets {
			widths[i] = b.Width()
		}
		fmt.Println()
		fmt.Println(viz.PlotSeries("bracket width", widths))
	}
	return nil
}

// newExperiment tags the run logs with the command that started them.
func newExperiment(cmd *cobra.Command) *experiment.Experiment {
	return experiment.New(experiment.NewRegistry(), logger.With("command", cmd.Name()))
}

// curveOf returns the integrand of a quad run or the objective of a
// minimize run.
func curveOf(exp *experiment.Experiment, cfg *config.Config) (func(float64) float64, error) {
	switch cfg.Kind {
	case config.KindQuad:
		p, err := exp.Registry().Quad(cfg.Problem, cfg.Params)
		if err != nil {
			return nil, err
		}
		return p.F, nil
	case config.KindMinimize:
		p, err := exp.Registry().Minimize(cfg.Problem, cfg.Params)
		if err != nil {
			return nil, err
		}
		return p.F, nil
	}
	return nil, fmt.Errorf("no curve to draw for a %s run", cfg.Kind)
}

const (
	curveCols  = 80
	curveRows  = 20
	curveScale = 4
)

// writeCurve draws the run's function over its bounds to an svg file.
func writeCurve(path string, exp *experiment.Experiment, cfg *config.Config, res *experiment.Result) error {
	f, err := curveOf(exp, cfg)
	if err != nil {
		return err
	}
	svg := export.CurveSVG(f, res.Bounds[0], res.Bounds[1], curveCols, curveRows, curveScale)
	return os.WriteFile(path, []byte(svg), 0o644)
}

func compareMethods(cmd *cobra.Command, args []string) error {
	kind, err := config.ParseKind(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, kind, args[1])
	if err != nil {
		return err
	}

	list := methods
	if len(list) == 0 {
		list = methodsOf(kind)
	}

	exp := newExperiment(cmd)
	results, err := exp.Compare(cmd.Context(), cfg, list)
	if err != nil {
		return err
	}

	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("%s %s", kind, cfg.Problem)))
	fmt.Println(resultTable(results))
	return nil
}

func convergence(cmd *cobra.Command, args []string) error {
	kind, err := config.ParseKind(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, kind, args[1])
	if err != nil {
		return err
	}

	exp := newExperiment(cmd)
	results, orders, err := exp.Convergence(cmd.Context(), cfg, stepList)
	if err != nil {
		return err
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			formatFloat(r.Step),
			fmt.Sprint(r.Steps),
			formatFloat(r.Error),
			formatFloat(orders[i]),
		}
	}
	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("%s %s (%s)", kind, cfg.Problem, cfg.Method)))
	fmt.Println(viz.Table([]string{"step", "steps", "error", "order"}, rows))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	kind, err := config.ParseKind(args[0])
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, kind, args[1])
	if err != nil {
		return err
	}

	exp := newExperiment(cmd)
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepFrom,
		Max:      sweepTo,
		NumSteps: sweepN,
	}, exp, logger.Default)
	if err != nil {
		return err
	}

	rows := make([][]string, len(results))
	errs := make([]float64, len(results))
	for i, r := range results {
		rows[i] = []string{formatFloat(r.ParamValue), formatVector(r.Value), formatFloat(r.Error), strconv.Itoa(r.Evaluations)}
		errs[i] = r.Error
	}
	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("%s %s (%s) over %s", kind, cfg.Problem, cfg.Method, sweepParam)))
	fmt.Println(viz.Table([]string{sweepParam, "value", "error", "evaluations"}, rows))
	if plot {
		fmt.Println(viz.PlotSeries("error", errs))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := newExperiment(cmd)
	results, err := automation.RunScenario(cmd.Context(), sc, exp, st, logger.Default)
	for _, r := range results {
		fmt.Println()
		printResult(r.Result)
		if r.RunID != "" {
			fmt.Printf("saved: %s\n", r.RunID)
		}
	}
	return err
}

func listProblems(cmd *cobra.Command, args []string) error {
	kinds := config.Kinds()
	if len(args) == 1 {
		k, err := config.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []config.Kind{k}
	}

	registry := experiment.NewRegistry()
	var rows [][]string
	for _, k := range kinds {
		for _, info := range registry.Infos(k) {
			rows = append(rows, []string{string(k), info.Name, info.Description, formatParams(info.Defaults)})
		}
	}
	fmt.Println(viz.Table([]string{"kind", "problem", "description", "params"}, rows))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	problems := config.PresetProblems()
	if len(args) == 1 {
		problems = []string{args[0]}
	}

	var rows [][]string
	for _, p := range problems {
		for _, name := range config.ListPresets(p) {
			c := config.GetPreset(p, name)
			rows = append(rows, []string{p, name, string(c.Kind), c.Method, formatFloat(c.Step), formatFloat(c.Eps)})
		}
	}
	if len(rows) == 0 {
		return fmt.Errorf("no presets for %v", problems)
	}
	fmt.Println(viz.Table([]string{"problem", "preset", "kind", "method", "step", "eps"}, rows))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	return writeRunList(os.Stdout, runs)
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	printMetadata(meta)

	series, err := st.LoadSeries(runID)
	if err != nil {
		if errors.Is(err, storage.ErrNoSeries) {
			return nil
		}
		return err
	}

	fmt.Println()
	if config.Kind(meta.Kind) == config.KindODE {
		var cols [][]float64
		for _, name := range series.Header[1:] {
			cols = append(cols, series.Column(name))
		}
		fmt.Println(viz.PlotSeries(fmt.Sprintf("%s (%s)", meta.Problem, meta.Method), cols...))
		return nil
	}
	fmt.Println(viz.PlotSeries("bracket", series.Column("lo"), series.Column("hi")))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if svgPath == "" {
		return st.Export(os.Stdout, args[0])
	}

	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(svgPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := chartOf(series).WriteSVG(f, svgWidth, svgHeight); err != nil {
		return err
	}
	fmt.Printf("exported: %s\n", svgPath)
	return f.Close()
}

// chartOf plots a trajectory against time, or a bracket history against
// its row index.
func chartOf(series *storage.Series) export.Chart {
	if len(series.Header) > 0 && series.Header[0] == "time" {
		chart := export.Chart{X: series.Column("time"), Labels: series.Header[1:]}
		for _, name := range series.Header[1:] {
			chart.Series = append(chart.Series, series.Column(name))
		}
		return chart
	}

	x := make([]float64, len(series.Rows))
	for i := range x {
		x[i] = float64(i)
	}
	return export.Chart{
		X:      x,
		Series: [][]float64{series.Column("lo"), series.Column("hi")},
		Labels: []string{"lo", "hi"},
	}
}
