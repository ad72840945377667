package optim

import "golang.org/x/exp/constraints"

// Vars, not constants: the complement is rounded the way float64
// arithmetic rounds it, which the reference evaluation counts rely on.
var (
	goldenTau           = 0.618
	goldenTauComplement = 1.0 - goldenTau
)

func goldenSection[T constraints.Float](xa, xb, eps T, f func(T) T, stats *Stats) T {
	tau := T(goldenTau)
	tauC := T(goldenTauComplement)

	x0 := xa
	x1 := xb

	x0i := x0 + tauC*(x1-x0)
	x1i := x0 + tau*(x1-x0)

	f0i := f(x0i)
	f1i := f(x1i)
	stats.count(2)
	stats.observe(0, float64(x0), float64(x1))

	for it := 1; x1-x0 > eps; it++ {
		if f0i <= f1i {
			x1 = x1i

			x1i = x0i
			x0i = x0 + tauC*(x1-x0)

			f1i = f0i
			f0i = f(x0i)
		} else {
			x0 = x0i

			x0i = x1i
			x1i = x0 + tau*(x1-x0)

			f0i = f1i
			f1i = f(x1i)
		}
		stats.count(1)
		stats.observe(it, float64(x0), float64(x1))
	}

	return (x0 + x1) / 2
}
