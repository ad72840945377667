// Package optim locates minima of scalar functions without derivatives.
//
// [FindMinimum] narrows a bracket [xa, xb] assumed to hold exactly one
// local minimum until its width is at most eps, using either [Dichotomy] or
// [GoldenSection], and returns the midpoint of the final bracket.
//
// [Descent] minimises a function of N variables with a single
// coordinate-descent sweep: every axis is searched once, in index order,
// with the other coordinates held at their current values.
//
// # Statistics
//
// Both accept an optional *[Stats]. When non-nil, every objective
// evaluation increments Stats.Evaluations and Stats.Observer, if set, is
// told about each bracket. A nil *Stats costs one pointer test per
// evaluation. Evaluation counts are deterministic for a given method,
// bracket and eps:
//
//	f(x) = 3(x-1)²+10 on [-1, 2], eps 0.01: dichotomy 21, golden section 14
package optim
