package integrators

import (
	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

type rk4[T constraints.Float] struct {
	k0, k1, k2, k3 vec.Vector[T]
	scratch        vec.Vector[T]
}

func (r *rk4[T]) ensureScratch(n int) {
	if len(r.k0) != n {
		r.k0 = make(vec.Vector[T], n)
		r.k1 = make(vec.Vector[T], n)
		r.k2 = make(vec.Vector[T], n)
		r.k3 = make(vec.Vector[T], n)
		r.scratch = make(vec.Vector[T], n)
	}
}

func (r *rk4[T]) Step(dst vec.Vector[T], sys System[T], t, h T, y vec.Vector[T]) {
	n := len(y)
	r.ensureScratch(n)

	sys.scaled(r.k0, t, h, y)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + r.k0[i]/2
	}
	sys.scaled(r.k1, t+h/2, h, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + r.k1[i]/2
	}
	sys.scaled(r.k2, t+h/2, h, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + r.k2[i]
	}
	sys.scaled(r.k3, t+h, h, r.scratch)

	for i := 0; i < n; i++ {
		dst[i] = (r.k0[i] + 2*r.k1[i] + 2*r.k2[i] + r.k3[i]) / 6
	}
}
