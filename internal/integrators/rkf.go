package integrators

import (
	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

// Fehlberg coefficients (RKF45, fifth-order weights)
const (
	fa2 = 1.0 / 4.0
	fa3 = 3.0 / 8.0
	fa4 = 12.0 / 13.0
	fa6 = 1.0 / 2.0

	fb21 = 1.0 / 4.0
	fb31 = 3.0 / 32.0
	fb32 = 9.0 / 32.0
	fb41 = 1932.0 / 2197.0
	fb42 = -7200.0 / 2197.0
	fb43 = 7296.0 / 2197.0
	fb51 = 439.0 / 216.0
	fb52 = -8.0
	fb53 = 3680.0 / 513.0
	fb54 = -845.0 / 4104.0
	fb61 = -8.0 / 27.0
	fb62 = 2.0
	fb63 = -3544.0 / 2565.0
	fb64 = 1859.0 / 4104.0
	fb65 = -11.0 / 40.0

	fc1 = 16.0 / 135.0
	fc3 = 6656.0 / 12825.0
	fc4 = 28561.0 / 56430.0
	fc5 = -9.0 / 50.0
	fc6 = 2.0 / 55.0
)

type rkf[T constraints.Float] struct {
	k1, k2, k3, k4, k5, k6 vec.Vector[T]
	scratch                vec.Vector[T]
}

func (r *rkf[T]) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(vec.Vector[T], n)
		r.k2 = make(vec.Vector[T], n)
		r.k3 = make(vec.Vector[T], n)
		r.k4 = make(vec.Vector[T], n)
		r.k5 = make(vec.Vector[T], n)
		r.k6 = make(vec.Vector[T], n)
		r.scratch = make(vec.Vector[T], n)
	}
}

// Step assembles every stage vector in full before the next stage is
// evaluated: f_i at stage s sees all components of stage s-1.
func (r *rkf[T]) Step(dst vec.Vector[T], sys System[T], t, h T, y vec.Vector[T]) {
	n := len(y)
	r.ensureScratch(n)

	sys.scaled(r.k1, t, h, y)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + fb21*r.k1[i]
	}
	sys.scaled(r.k2, t+fa2*h, h, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + fb31*r.k1[i] + fb32*r.k2[i]
	}
	sys.scaled(r.k3, t+fa3*h, h, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + fb41*r.k1[i] + fb42*r.k2[i] + fb43*r.k3[i]
	}
	sys.scaled(r.k4, t+fa4*h, h, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + fb51*r.k1[i] + fb52*r.k2[i] + fb53*r.k3[i] + fb54*r.k4[i]
	}
	sys.scaled(r.k5, t+h, h, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + fb61*r.k1[i] + fb62*r.k2[i] + fb63*r.k3[i] + fb64*r.k4[i] + fb65*r.k5[i]
	}
	sys.scaled(r.k6, t+fa6*h, h, r.scratch)

	for i := 0; i < n; i++ {
		dst[i] = fc1*r.k1[i] + fc3*r.k3[i] + fc4*r.k4[i] + fc5*r.k5[i] + fc6*r.k6[i]
	}
}
