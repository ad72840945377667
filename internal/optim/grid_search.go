package optim

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

// Scan samples f at n+1 evenly spaced points of [xa, xb] and returns the
// sub-bracket spanning the two cells around the best sample. It is a coarse
// pass for functions that are not unimodal on the whole bracket.
func Scan[T constraints.Float](f func(T) T, xa, xb T, n int, stats *Stats) (lo, hi T, err error) {
	if n < 2 {
		return 0, 0, fmt.Errorf("%w: n=%d", ErrInvalidGrid, n)
	}
	if err := checkBracket(xa, xb); err != nil {
		return 0, 0, err
	}

	at := func(k int) T {
		if k == n {
			return xb
		}
		return xa + (xb-xa)*T(k)/T(n)
	}

	bestK := 0
	best := f(xa)
	for k := 1; k <= n; k++ {
		if v := f(at(k)); v < best {
			best = v
			bestK = k
		}
	}
	stats.count(n + 1)

	return at(max(bestK-1, 0)), at(min(bestK+1, n)), nil
}

// Box is the outcome of a GridSearch: the best grid point and the box of
// neighbouring cells around it.
type Box[T constraints.Float] struct {
	Best  vec.Vector[T]
	Value T
	Min   vec.Vector[T]
	Max   vec.Vector[T]
}

// GridSearch evaluates an Objective on a regular grid of cells+1 points per
// axis.
type GridSearch[T constraints.Float] struct {
	cells int
}

func NewGridSearch[T constraints.Float](cells int) (*GridSearch[T], error) {
	if cells < 2 {
		return nil, fmt.Errorf("%w: cells=%d", ErrInvalidGrid, cells)
	}
	return &GridSearch[T]{cells: cells}, nil
}

func (g *GridSearch[T]) Search(f Objective[T], minPoint, maxPoint vec.Vector[T], stats *Stats) (*Box[T], error) {
	if len(minPoint) != len(maxPoint) {
		return nil, fmt.Errorf("%w: min has %d axes, max has %d",
			vec.ErrDimensionMismatch, len(minPoint), len(maxPoint))
	}
	for i := range minPoint {
		if err := checkBracket(minPoint[i], maxPoint[i]); err != nil {
			return nil, fmt.Errorf("axis %d: %w", i, err)
		}
	}

	var (
		best      vec.Vector[T]
		bestIdx   []int
		bestValue T
	)
	current := make(vec.Vector[T], len(minPoint))
	idx := make([]int, len(minPoint))

	g.searchRecursive(0, current, idx, minPoint, maxPoint, f, stats, func(v T) {
		if best == nil || v < bestValue {
			bestValue = v
			best = current.Clone()
			bestIdx = append(bestIdx[:0], idx...)
		}
	})

	box := &Box[T]{
		Best:  best,
		Value: bestValue,
		Min:   make(vec.Vector[T], len(minPoint)),
		Max:   make(vec.Vector[T], len(minPoint)),
	}
	for i, k := range bestIdx {
		box.Min[i] = g.coord(minPoint[i], maxPoint[i], max(k-1, 0))
		box.Max[i] = g.coord(minPoint[i], maxPoint[i], min(k+1, g.cells))
	}
	return box, nil
}

func (g *GridSearch[T]) searchRecursive(
	depth int,
	current vec.Vector[T],
	idx []int,
	minPoint, maxPoint vec.Vector[T],
	f Objective[T],
	stats *Stats,
	visit func(T),
) {
	if depth == len(current) {
		stats.count(1)
		visit(f(current))
		return
	}

	for k := 0; k <= g.cells; k++ {
		idx[depth] = k
		current[depth] = g.coord(minPoint[depth], maxPoint[depth], k)
		g.searchRecursive(depth+1, current, idx, minPoint, maxPoint, f, stats, visit)
	}
}

func (g *GridSearch[T]) coord(lo, hi T, k int) T {
	if k == g.cells {
		return hi
	}
	return lo + (hi-lo)*T(k)/T(g.cells)
}
