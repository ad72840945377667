package integrators

import (
	"fmt"
	"strings"
)

// Method selects an integration scheme.
type Method int

const (
	Euler Method = iota
	RK4
	// RKF7 is the six-stage Fehlberg 4(5) pair advanced with its fifth-order
	// weights. The name is kept for compatibility; it is not a 7th-order
	// scheme.
	RKF7
)

func (m Method) String() string {
	switch m {
	case Euler:
		return "euler"
	case RK4:
		return "rk4"
	case RKF7:
		return "rkf7"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "euler":
		return Euler, nil
	case "rk4":
		return RK4, nil
	case "rkf7", "rkf", "rkf45", "fehlberg":
		return RKF7, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Methods lists every implemented method.
func Methods() []Method {
	return []Method{Euler, RK4, RKF7}
}
