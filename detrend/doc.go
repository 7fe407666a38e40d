// Package detrend removes a multiplicative scale offset between two
// measurement series before they are compared.
//
// When one method reads systematically higher by a proportion rather than a
// fixed amount, the differences grow with the magnitude of the measurement
// and the limits of agreement are inflated. Detrending fits
//
//	series2 ≈ slope·series1 + intercept
//
// and divides series2 by the fitted slope.
//
// # Methods
//
//   - None: no adjustment, the second series is passed through.
//   - Linear: ordinary least squares of series2 on series1.
//   - ODR: orthogonal distance regression, which treats both series as
//     measured with error. Each axis is weighted by the inverse of its
//     variance.
//
// # Usage
//
//	res, err := detrend.ByName("odr", methodA, methodB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("slope %.4f ± %.4f\n", *res.Slope, *res.SlopeStdErr)
//	sample, _ := paired.New(methodA, res.Adjusted)
//
// Method names are matched without regard to case. An unknown name returns
// an error of kind serrors.ErrUnsupportedMethod.
package detrend
