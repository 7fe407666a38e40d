// Package confidence computes confidence intervals for a Bland-Altman
// analysis: one on the mean difference and one on each limit of agreement.
//
// The interval on the mean difference md is the normal interval
// md ± z·sd/√n. The intervals on the limits md ± loa·sd use one of two
// methods:
//
//   - ExactPaired ("exact paired"): exact coefficients solved numerically
//     by package carkeet, two per calculation, run through a
//     dispatch.Dispatcher.
//   - Approximate ("approximate"): the closed-form standard error
//     sd²·(1/n + loa²/(2(n-1))) with a Student-t quantile on n-1 degrees
//     of freedom.
//
// # Usage
//
//	ci, err := confidence.Calculate(ctx, md, sd, n, 1.96, 95, confidence.ExactPaired)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("upper LoA 95%% CI: %.2f to %.2f\n", ci.UpperLoA.Low, ci.UpperLoA.High)
//
// The confidence level is given in percent and must lie strictly between 1
// and 99.9. Method names are matched without regard to case.
package confidence
