// Package objective holds ready-made functions to minimise: a fixed-size
// neuron computing a weighted sum, a line of such neurons, squared-error
// losses over them, and analytic fixtures with known minimisers.
//
// A [Fit] turns a set of (input, expected) samples into a multivariate
// objective over the neuron's weights, suitable for optim.Descent:
//
//	fit, _ := objective.NewFit(samples)
//	d, _ := optim.NewDescent(optim.GoldenSection, 0.01, 1e-4, lo, hi, fit.Objective())
//	weights := d.FindMinimum(nil)
package objective
