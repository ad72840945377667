package config

import "sort"

// Presets are reference runs keyed by problem, then preset name.
var Presets = map[string]map[string]*Config{
	"decay": {
		"euler": {
			Kind: KindODE, Problem: "decay", Method: "euler", Step: 1e-4,
			Interval: []float64{0, 2}, Every: 100,
			Params: map[string]float64{"a": -3, "amplitude": 100},
		},
		"coarse": {
			Kind: KindODE, Problem: "decay", Method: "rk4", Step: 0.1,
			Interval: []float64{0, 2},
		},
	},
	"oscillator": {
		"rk4": {
			Kind: KindODE, Problem: "oscillator", Method: "rk4", Step: 1e-5,
			Interval: []float64{0, 2}, Every: 1000,
			Params: map[string]float64{"omega": 3, "amplitude": 100},
		},
		"rkf7": {
			Kind: KindODE, Problem: "oscillator", Method: "rkf7", Step: 1e-5,
			Interval: []float64{0, 2}, Every: 1000,
			Params: map[string]float64{"omega": 3, "amplitude": 100},
		},
	},
	"gauss": {
		"trapezoid": {
			Kind: KindQuad, Problem: "gauss", Method: "trapezoid", Step: 0.1,
			Interval: []float64{-10, 10},
		},
		"rectangle": {
			Kind: KindQuad, Problem: "gauss", Method: "rectangle", Step: 0.1,
			Interval: []float64{-10, 10},
		},
	},
	"parabola": {
		"dichotomy": {
			Kind: KindMinimize, Problem: "parabola", Method: "dichotomy", Eps: 0.01,
		},
		"golden": {
			Kind: KindMinimize, Problem: "parabola", Method: "golden", Eps: 0.01,
		},
	},
	"cubic": {
		"golden": {
			Kind: KindMinimize, Problem: "cubic", Method: "golden", Eps: 0.01,
		},
		"fine": {
			Kind: KindMinimize, Problem: "cubic", Method: "golden", Eps: 1e-8,
		},
	},
	"paraboloid": {
		"dichotomy": {
			Kind: KindDescent, Problem: "paraboloid", Method: "dichotomy", Step: 0.01, Eps: 0.01,
		},
		"golden": {
			Kind: KindDescent, Problem: "paraboloid", Method: "golden", Step: 0.01, Eps: 0.01,
		},
	},
	"neuron": {
		"fit": {
			Kind: KindDescent, Problem: "neuron", Method: "golden", Step: 0.01, Eps: 1e-6,
		},
	},
}

// GetPreset returns a copy of the preset, or nil.
func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of a problem in sorted order.
func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetProblems returns the problems that have presets, sorted.
func PresetProblems() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
