package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/logger"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string

	method   string
	preset   string
	step     float64
	eps      float64
	from     float64
	to       float64
	lower    []float64
	upper    []float64
	scan     int
	every    int
	params   []string
	save     bool
	plot     bool
	explore  bool
	methods  []string
	stepList []float64

	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepN     int

	svgPath   string
	svgWidth  int
	svgHeight int
)

// main registers the commands and flags and executes the root command. It
// exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "numkit",
		Short:         "numerical integration and minimisation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.NewText(logLevel, os.Stderr))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".numkit", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	odeCmd := &cobra.Command{
		Use:   "ode [problem]",
		Short: "integrate an initial value problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runKind(config.KindODE),
	}
	runFlags(odeCmd)
	intervalFlags(odeCmd)
	odeCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size")
	odeCmd.Flags().IntVar(&every, "every", config.DefaultEvery, "record every n-th step")
	odeCmd.Flags().BoolVar(&plot, "plot", false, "plot the trajectory")

	quadCmd := &cobra.Command{
		Use:   "quad [problem]",
		Short: "integrate a function over an interval",
		Args:  cobra.ExactArgs(1),
		RunE:  runKind(config.KindQuad),
	}
	runFlags(quadCmd)
	intervalFlags(quadCmd)
	quadCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size")
	quadCmd.Flags().BoolVar(&plot, "plot", false, "plot the integrand")
	quadCmd.Flags().StringVar(&svgPath, "svg", "", "draw the integrand as svg to this path")

	minimizeCmd := &cobra.Command{
		Use:   "minimize [problem]",
		Short: "find the minimum of a function of one variable",
		Args:  cobra.ExactArgs(1),
		RunE:  runKind(config.KindMinimize),
	}
	runFlags(minimizeCmd)
	intervalFlags(minimizeCmd)
	minimizeCmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "bracket tolerance")
	minimizeCmd.Flags().IntVar(&scan, "scan", 0, "grid cells scanned before the search (0 disables)")
	minimizeCmd.Flags().BoolVar(&plot, "plot", false, "plot the bracket widths")
	minimizeCmd.Flags().BoolVar(&explore, "explore", false, "step through the brackets interactively")
	minimizeCmd.Flags().StringVar(&svgPath, "svg", "", "draw the objective as svg to this path")

	descentCmd := &cobra.Command{
		Use:   "descent [problem]",
		Short: "minimise a function of several variables over a box",
		Args:  cobra.ExactArgs(1),
		RunE:  runKind(config.KindDescent),
	}
	runFlags(descentCmd)
	descentCmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "bracket tolerance per axis")
	descentCmd.Flags().Float64SliceVar(&lower, "min", nil, "lower corner of the box")
	descentCmd.Flags().Float64SliceVar(&upper, "max", nil, "upper corner of the box")
	descentCmd.Flags().IntVar(&scan, "scan", 0, "grid cells per axis scanned before the descent (0 disables)")
	descentCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "gradient difference step")

	compareCmd := &cobra.Command{
		Use:   "compare [kind] [problem]",
		Short: "run one problem with several methods",
		Args:  cobra.ExactArgs(2),
		RunE:  compareMethods,
	}
	compareCmd.Flags().StringSliceVar(&methods, "methods", nil, "methods to compare (default: all for the kind)")
	compareCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	compareCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size")
	compareCmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "bracket tolerance")
	compareCmd.Flags().StringArrayVar(&params, "param", nil, "problem parameter as name=value")
	intervalFlags(compareCmd)

	convergeCmd := &cobra.Command{
		Use:   "converge [kind] [problem]",
		Short: "estimate the observed order of an ode or quad method",
		Args:  cobra.ExactArgs(2),
		RunE:  convergence,
	}
	convergeCmd.Flags().StringVar(&method, "method", "", "method")
	convergeCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	convergeCmd.Flags().Float64SliceVar(&stepList, "steps", []float64{0.0625, 0.03125, 0.015625}, "step sizes, coarse to fine")
	convergeCmd.Flags().StringArrayVar(&params, "param", nil, "problem parameter as name=value")
	intervalFlags(convergeCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [kind] [problem]",
		Short: "run a problem over a range of one parameter",
		Args:  cobra.ExactArgs(2),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&method, "method", "", "method (default depends on the kind)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	sweepCmd.Flags().StringArrayVar(&params, "param", nil, "problem parameter as name=value")
	sweepCmd.Flags().BoolVar(&plot, "plot", false, "plot the error against the parameter")
	intervalFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size")
	sweepCmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "bracket tolerance")
	sweepCmd.Flags().StringVar(&sweepParam, "sweep-param", "", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "sweep-from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "sweep-to", 1, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepN, "sweep-n", 5, "number of values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	problemsCmd := &cobra.Command{
		Use:   "problems [kind]",
		Short: "list registered problems",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listProblems,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write the series as an svg chart to this path instead")
	exportCmd.Flags().IntVar(&svgWidth, "width", 800, "svg width")
	exportCmd.Flags().IntVar(&svgHeight, "height", 400, "svg height")

	rootCmd.AddCommand(odeCmd, quadCmd, minimizeCmd, descentCmd, compareCmd, convergeCmd,
		sweepCmd, scenarioCmd, problemsCmd, presetsCmd, runsCmd, showCmd, exportCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func runFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&method, "method", "", "method (default depends on the kind)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().StringArrayVar(&params, "param", nil, "problem parameter as name=value")
	cmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
}

func intervalFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&from, "from", 0, "interval start (default: the problem's)")
	cmd.Flags().Float64Var(&to, "to", 0, "interval end (default: the problem's)")
}
