// Package automation runs scripted sequences of experiments and parameter
// sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/numkit/internal/config"
	"github.com/san-kum/numkit/internal/experiment"
	"github.com/san-kum/numkit/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted run sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. When Save is set the result is stored.
type ScenarioStep struct {
	config.Config `yaml:",inline"`
	Save          bool `yaml:"save,omitempty"`
}

// StepResult pairs a step result with the run ID it was saved under.
type StepResult struct {
	Result *experiment.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file. Step fields left out
// take the values of config.DefaultConfig.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Steps       []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}

	scenario := &Scenario{Name: raw.Name, Description: raw.Description}
	for i, node := range raw.Steps {
		step := ScenarioStep{Config: *config.DefaultConfig()}
		if err := node.Decode(&step); err != nil {
			return nil, fmt.Errorf("automation: step %d: %w", i+1, err)
		}
		scenario.Steps = append(scenario.Steps, step)
	}
	return scenario, nil
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results so far. store may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, exp *experiment.Experiment, store *storage.Store, log *slog.Logger) ([]StepResult, error) {
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	if log == nil {
		log = slog.Default()
	}

	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		log.Info("running step",
			"scenario", scenario.Name,
			"step", i+1,
			"of", len(scenario.Steps),
			"kind", step.Kind,
			"problem", step.Problem,
			"method", step.Method)

		cfg := step.Config
		res, err := exp.Run(ctx, &cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		out := StepResult{Result: res}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			out.RunID, err = store.Save(res, cfg.Params)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// ParameterSweep runs Base once per value of one problem parameter,
// evenly spaced over [Min, Max].
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min, Max float64
	NumSteps int
}

// SweepResult holds one run of a sweep.
type SweepResult struct {
	ParamValue  float64
	Value       []float64
	Error       float64
	Evaluations int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, exp *experiment.Experiment, log *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps, got %d", config.ErrInvalidConfig, sweep.NumSteps)
	}
	if sweep.Param == "" {
		return nil, fmt.Errorf("%w: sweep parameter is required", config.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, 1)
		}
		cfg.Params[sweep.Param] = paramVal

		result, err := exp.Run(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sweep.Param, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			Value:       result.Value,
			Error:       result.Error,
			Evaluations: result.Evaluations,
		})

		log.Debug("sweep step", "step", i+1, "of", sweep.NumSteps, sweep.Param, paramVal)
	}

	return results, nil
}
