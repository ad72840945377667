package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/numkit/internal/integrators"
	"github.com/san-kum/numkit/internal/optim"
	"github.com/san-kum/numkit/internal/quad"
)

// Kind selects which engine a run uses.
type Kind string

const (
	KindODE      Kind = "ode"
	KindQuad     Kind = "quad"
	KindMinimize Kind = "minimize"
	KindDescent  Kind = "descent"
)

func Kinds() []Kind {
	return []Kind{KindODE, KindQuad, KindMinimize, KindDescent}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, s)
}

const (
	DefaultStep  = 0.01
	DefaultEps   = 0.01
	DefaultEvery = 1
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config describes one run. Interval, Min and Max are optional; when empty
// the problem's own bounds apply.
type Config struct {
	Kind     Kind               `yaml:"kind"`
	Problem  string             `yaml:"problem"`
	Method   string             `yaml:"method"`
	Step     float64            `yaml:"step"`
	Eps      float64            `yaml:"eps"`
	Interval []float64          `yaml:"interval,omitempty"`
	Min      []float64          `yaml:"min,omitempty"`
	Max      []float64          `yaml:"max,omitempty"`
	Scan     int                `yaml:"scan,omitempty"`
	Every    int                `yaml:"every,omitempty"`
	Params   map[string]float64 `yaml:"params,omitempty"`
	LogLevel string             `yaml:"log_level,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Kind:     KindMinimize,
		Problem:  "parabola",
		Method:   "golden",
		Step:     DefaultStep,
		Eps:      DefaultEps,
		Every:    DefaultEvery,
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Interval = append([]float64(nil), c.Interval...)
	out.Min = append([]float64(nil), c.Min...)
	out.Max = append([]float64(nil), c.Max...)
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}

// Validate checks the fields the selected kind uses. Engines validate
// again on construction; this catches mistakes before a problem is built.
func (c *Config) Validate() error {
	if c.Problem == "" {
		return fmt.Errorf("%w: problem is required", ErrInvalidConfig)
	}
	if len(c.Interval) != 0 && len(c.Interval) != 2 {
		return fmt.Errorf("%w: interval needs two values, got %d", ErrInvalidConfig, len(c.Interval))
	}
	if c.Every < 0 || c.Scan < 0 {
		return fmt.Errorf("%w: every and scan must not be negative", ErrInvalidConfig)
	}

	var err error
	switch c.Kind {
	case KindODE:
		_, err = integrators.ParseMethod(c.Method)
		if err == nil && (c.Step == 0 || !finite(c.Step)) {
			err = fmt.Errorf("step %v", c.Step)
		}
	case KindQuad:
		_, err = quad.ParseMethod(c.Method)
		if err == nil && !(c.Step > 0 && finite(c.Step)) {
			err = fmt.Errorf("step %v", c.Step)
		}
	case KindMinimize, KindDescent:
		_, err = optim.ParseMethod(c.Method)
		if err == nil && !(c.Eps > 0 && finite(c.Eps)) {
			err = fmt.Errorf("eps %v", c.Eps)
		}
		if err == nil && len(c.Min) != len(c.Max) {
			err = fmt.Errorf("min has %d values, max %d", len(c.Min), len(c.Max))
		}
	default:
		err = fmt.Errorf("unknown kind %q", c.Kind)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Bounds returns the interval, or ok=false when the problem default
// applies.
func (c *Config) Bounds() (lo, hi float64, ok bool) {
	if len(c.Interval) != 2 {
		return 0, 0, false
	}
	return c.Interval[0], c.Interval[1], true
}

// Param returns Params[name], or def when unset.
func (c *Config) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
