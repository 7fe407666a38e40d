// Package dispatch runs the pair of exact paired coefficient searches that
// bound a confidence interval on a limit of agreement.
//
// The inner coefficient is solved at gamma = (1-confidence)/2 and the outer
// one at 1-(1-confidence)/2. The two searches are independent, so Parallel
// runs them as a fork-join pair; Sequential runs them one after the other.
//
//	d := dispatch.New(carkeet.New(nil))
//	k, err := d.Coefficients(ctx, 85, 0.95, 1.96)
//	// k.Inner ≈ 1.712, k.Outer ≈ 2.324
//
// Solver and Dispatcher are interfaces so either side can be replaced in
// tests; mocks live in dispatch/mock.
package dispatch
