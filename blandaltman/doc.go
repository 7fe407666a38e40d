// Package blandaltman runs a complete Bland-Altman method comparison.
//
// Given the readings of the same subjects by two methods it optionally
// rescales the second series (see package detrend), computes the mean and
// standard deviation of the paired differences, the limits of agreement
// md ± loa·sd and, unless disabled, confidence intervals on all three.
//
// # Basic Usage
//
//	res, err := blandaltman.Analyze(ctx, methodA, methodB, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("bias %.2f, LoA %.2f to %.2f\n",
//	    res.MeanDiff, res.LowerLimit, res.UpperLimit)
//	fmt.Printf("95%% CI on upper LoA: %.2f to %.2f\n",
//	    res.ConfidenceIntervals.UpperLoA.Low,
//	    res.ConfidenceIntervals.UpperLoA.High)
//
// # Configuration
//
//	config := &blandaltman.Config{
//	    LimitOfAgreement:         1.96,          // multiple of sd
//	    ConfidenceInterval:       95,            // percent, 0 disables
//	    ConfidenceIntervalMethod: "approximate", // or "exact paired"
//	    DetrendMethod:            "odr",         // "", "linear" or "odr"
//	}
//
// The Result carries the per-pair means and differences so a caller can draw
// the Bland-Altman plot, and marshals to JSON as is.
package blandaltman
