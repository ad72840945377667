// Package quad evaluates definite integrals of scalar functions with fixed
// step composite rules.
//
// Samples are taken at a+h, a+2h, ... while strictly below b and combined
// with the two endpoint values:
//
//	Rectangle: h * (f(a) + f(b) + Σ f(a+k·h))
//	Trapezoid: h * ((f(a) + f(b))/2 + Σ f(a+k·h))
//
// Rectangle keeps both endpoints at full weight. This is the rule the
// package has always computed and callers' tolerances depend on it.
//
// When b-a is not a multiple of h the last cell is weighted by the same
// fixed rule, without correction.
package quad
