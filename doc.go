// Package gocompare provides Bland-Altman agreement statistics for comparing
// two methods of measurement.
//
// Given paired readings of the same subjects by two methods, gocompare
// computes the mean difference (bias), the standard deviation of the
// differences and the limits of agreement md ± 1.96·sd, with confidence
// intervals on all three. Intervals on the limits are either exact, after
// Carkeet (2015), or approximate, after Bland and Altman (1999).
//
// # Features
//
//   - Paired samples with CSV loading and plot coordinate export
//   - Exact paired confidence coefficients solved numerically
//   - Approximate closed-form confidence intervals
//   - Detrending of proportional bias by least squares or orthogonal
//     distance regression
//   - A command line tool with TOML configuration
//
// # Quick Start
//
//	res, err := blandaltman.Analyze(ctx, methodA, methodB, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("bias %.2f, LoA %.2f to %.2f\n",
//	    res.MeanDiff, res.LowerLimit, res.UpperLimit)
//
// A single exact coefficient:
//
//	k, _ := carkeet.Estimate(85, 0.975, 1.96) // ≈ 2.324
//
// # Packages
//
// The library is organized into the following packages:
//
//   - paired: Paired samples, summary statistics and CSV input
//   - detrend: Removal of proportional bias between the two series
//   - carkeet: Exact paired coefficient estimator
//   - dispatch: Concurrent solving of the inner and outer coefficients
//   - confidence: Confidence intervals on the mean and limits of agreement
//   - blandaltman: End-to-end analysis
//   - serrors: Error kinds shared by all packages
//   - logger: Context-scoped structured logging
//   - config: TOML configuration file
//
// # References
//
//   - Bland, J.M., & Altman, D.G. (1986). Statistical methods for assessing
//     agreement between two methods of clinical measurement. Lancet 327.
//   - Bland, J.M., & Altman, D.G. (1999). Measuring agreement in method
//     comparison studies. Statistical Methods in Medical Research 8.
//   - Carkeet, A. (2015). Exact parametric confidence intervals for
//     Bland-Altman limits of agreement. Optometry and Vision Science 92.
package gocompare
