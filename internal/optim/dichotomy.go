package optim

import "golang.org/x/exp/constraints"

func dichotomy[T constraints.Float](xa, xb, eps T, f func(T) T, stats *Stats) T {
	x0 := xa
	x1 := xb

	x0i := (x1 + x0) / 2
	f0i := f(x0i)
	stats.count(1)
	stats.observe(0, float64(x0), float64(x1))

	for it := 1; x1-x0 > eps; it++ {
		x1i := (x1 + x0i) / 2
		f1i := f(x1i)
		stats.count(1)

		if f0i >= f1i {
			x0 = x0i
			x0i = x1i
			f0i = f1i
		} else {
			x2i := (x0 + x0i) / 2
			f2i := f(x2i)
			stats.count(1)

			x1 = x1i
			if f2i <= f0i {
				x0i = x2i
				f0i = f2i
			} else {
				x0 = x2i
			}
		}
		stats.observe(it, float64(x0), float64(x1))
	}

	return (x0 + x1) / 2
}
