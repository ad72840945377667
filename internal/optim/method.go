package optim

import (
	"fmt"
	"strings"
)

// Method selects a 1D minimisation strategy.
type Method int

const (
	// Dichotomy discards the worse part of the bracket around an evolving
	// inner point, one or two evaluations per iteration.
	Dichotomy Method = iota
	// GoldenSection keeps two inner points at 0.382 and 0.618 of the
	// bracket and reuses one of them every iteration.
	GoldenSection
)

func (m Method) String() string {
	switch m {
	case Dichotomy:
		return "dichotomy"
	case GoldenSection:
		return "golden"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "dichotomy", "dichotomie", "bisection":
		return Dichotomy, nil
	case "golden", "golden-section", "gold_ratio", "gold":
		return GoldenSection, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

func Methods() []Method {
	return []Method{Dichotomy, GoldenSection}
}
