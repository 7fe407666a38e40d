// Package carkeet computes exact confidence coefficients for the limits of
// agreement of a paired Bland-Altman analysis.
//
// For a sample of n paired differences with mean md and standard deviation
// sd, the sample limit md + K·sd is itself a random quantity. Carkeet (2015)
// gives the coefficient K for which that limit falls below the population
// limit μ + loa·σ with a chosen probability gamma. Evaluating the
// probability requires a one-dimensional integral over the sample mean,
// with a chi-squared tail for the sample variance inside it. The integral
// is inverted for K by a bracketing search that halves its step each time
// the estimate crosses gamma.
//
// # Basic Usage
//
//	// 95% CI for the upper LoA of 85 pairs
//	inner, _ := carkeet.Estimate(85, 0.025, 1.96) // ≈ 1.712
//	outer, _ := carkeet.Estimate(85, 0.975, 1.96) // ≈ 2.324
//	upper := [2]float64{md + inner*sd, md + outer*sd}
//
// # Configuration
//
// The search is bounded. An Estimator with a custom Config trades accuracy
// for time:
//
//	est := carkeet.New(&carkeet.Config{
//	    MaxIterations: 100,  // outer search steps
//	    Tolerance:     1e-6, // target |estimate - gamma|
//	})
//	res, err := est.Solve(ctx, n, gamma, 1.96)
//	if errors.Is(err, serrors.ErrDidNotConverge) {
//	    // the cap was hit before the tolerance was reached
//	}
//
// Solve checks ctx between search steps, so a deadline on the context
// bounds the wall time of a single coefficient.
package carkeet
