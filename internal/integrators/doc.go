// Package integrators advances systems of first-order ODEs with a fixed
// step.
//
// A [System] is an ordered set of component functions f_i(t, y), one per
// state component. A [Solver] binds a system to a stepping [Method] and a
// step size h:
//
//   - [Euler]: one evaluation per component and step
//   - [RK4]: classical four-stage Runge-Kutta
//   - [RKF7]: six-stage Runge-Kutta-Fehlberg, fifth-order weights
//
// The method is chosen once, when the solver is built; an unimplemented
// method is rejected by [New] before anything is evaluated.
//
// # Example
//
//	sys := integrators.System[float64]{
//		func(t float64, y vec.Vector[float64]) float64 { return y[1] },
//		func(t float64, y vec.Vector[float64]) float64 { return -9 * y[0] },
//	}
//	s, _ := integrators.New(integrators.RK4, 1e-4, vec.New[float64](2), sys)
//	yEnd, _ := s.Integrate(0, 2, vec.Of(0.0, 3.0))
//
// # Step semantics
//
// Integrate steps while t < t1, so the last step may end up to h past t1.
// Callers that need the exact endpoint pick h dividing t1-t0.
//
// # Thread Safety
//
// A Solver keeps per-stage scratch buffers and is NOT safe for concurrent
// use. Build one solver per goroutine.
package integrators
