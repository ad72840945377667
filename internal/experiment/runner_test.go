package experiment_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/experiment"
	"github.com/san-kum/numkit/internal/logger"
)

var _ = Describe("Experiment", func() {
	var (
		exp *experiment.Experiment
		ctx context.Context
	)

	BeforeEach(func() {
		exp = experiment.New(experiment.NewRegistry(), logger.Discard())
		ctx = context.Background()
	})

	Describe("presets", func() {
		It("runs every preset", func() {
			for _, problem := range config.PresetProblems() {
				for _, name := range config.ListPresets(problem) {
					cfg := config.GetPreset(problem, name)
					cfg.Every = 0

					res, err := exp.Run(ctx, cfg)
					Expect(err).NotTo(HaveOccurred(), "%s/%s", problem, name)
					Expect(res.Value).NotTo(BeEmpty())
					Expect(res.HasReference()).To(BeTrue(), "%s/%s", problem, name)
				}
			}
		})
	})

	Describe("the harmonic oscillator", func() {
		DescribeTable("high-order methods at h = 1e-5",
			func(method string) {
				cfg := config.GetPreset("oscillator", "rk4")
				cfg.Method = method

				res, err := exp.Run(ctx, cfg)
				Expect(err).NotTo(HaveOccurred())

				for i := range res.Value {
					Expect(res.Value[i]).To(BeNumerically("~", res.Reference[i], 1e-3))
				}
				Expect(res.Metrics).To(HaveKeyWithValue("max_deviation", BeNumerically("<", 1e-3)))
				Expect(res.Trajectory.Len()).To(BeNumerically(">", 100))
			},
			Entry("rk4", "rk4"),
			Entry("rkf7", "rkf7"),
		)

		It("is out of tolerance for euler at the same step", func() {
			cfg := config.GetPreset("oscillator", "rk4")
			cfg.Method = "euler"
			cfg.Every = 0

			res, err := exp.Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Error).To(BeNumerically(">", 1e-3))
		})
	})

	Describe("minimisation", func() {
		DescribeTable("evaluation counts",
			func(kind config.Kind, problem, method string, count int) {
				cfg := &config.Config{
					Kind: kind, Problem: problem, Method: method, Step: 0.01, Eps: 0.01,
				}
				res, err := exp.Run(ctx, cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Evaluations).To(Equal(count))
				Expect(res.Error).To(BeNumerically("<=", 0.01))
			},
			Entry("dichotomy on the parabola", config.KindMinimize, "parabola", "dichotomy", 21),
			Entry("golden section on the parabola", config.KindMinimize, "parabola", "golden", 14),
			Entry("dichotomy on the cubic", config.KindMinimize, "cubic", "dichotomy", 23),
			Entry("golden section on the cubic", config.KindMinimize, "cubic", "golden", 17),
			Entry("dichotomy descent on the paraboloid", config.KindDescent, "paraboloid", "dichotomy", 44),
			Entry("golden descent on the paraboloid", config.KindDescent, "paraboloid", "golden", 30),
		)

		It("is deterministic", func() {
			cfg := config.GetPreset("paraboloid", "golden")
			first, err := exp.Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			second, err := exp.Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Value).To(Equal(first.Value))
			Expect(second.Evaluations).To(Equal(first.Evaluations))
			Expect(second.Brackets).To(Equal(first.Brackets))
		})
	})

	Describe("failures", func() {
		It("reports unknown problems with their run", func() {
			cfg := &config.Config{Kind: config.KindODE, Problem: "lorenz", Method: "rk4", Step: 0.01}
			_, err := exp.Run(ctx, cfg)
			Expect(err).To(MatchError(experiment.ErrUnknownProblem))

			var runErr *experiment.RunError
			Expect(err).To(BeAssignableToTypeOf(runErr))
		})

		It("does not start after cancellation", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := exp.Run(canceled, config.GetPreset("cubic", "fine"))
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("comparison", func() {
		It("keeps the method order", func() {
			cfg := config.GetPreset("gauss", "trapezoid")
			results, err := exp.Compare(ctx, cfg, []string{"rectangle", "trapezoid"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Method).To(Equal("rectangle"))
			Expect(results[1].Method).To(Equal("trapezoid"))
			for _, r := range results {
				Expect(r.Value[0]).To(BeNumerically("~", math.Sqrt(math.Pi), 1e-3))
			}
		})
	})
})
