package integrators

import (
	"golang.org/x/exp/constraints"

	"github.com/san-kum/numkit/internal/vec"
)

type euler[T constraints.Float] struct{}

func (euler[T]) Step(dst vec.Vector[T], sys System[T], t, h T, y vec.Vector[T]) {
	sys.scaled(dst, t, h, y)
}
