package detrend

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gocompare/serrors"
)

// fitLinear regresses y on x by ordinary least squares.
// The slope standard error is sqrt(SSE/(n-2) / Sxx), zero for two points.
func fitLinear(x, y []float64) (*fit, error) {
	n := len(x)
	if n < 2 {
		return nil, serrors.InvalidArgument("linear detrending needs at least 2 pairs, got %d", n)
	}

	mx := stat.Mean(x, nil)
	sxx := 0.0
	for _, v := range x {
		d := v - mx
		sxx += d * d
	}
	if sxx == 0 {
		return nil, serrors.InvalidArgument("first series is constant, slope is undefined")
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	stdErr := 0.0
	if n > 2 {
		sse := 0.0
		for i := range x {
			r := y[i] - intercept - slope*x[i]
			sse += r * r
		}
		stdErr = math.Sqrt(sse / float64(n-2) / sxx)
	}

	return &fit{
		slope:       slope,
		intercept:   intercept,
		slopeStdErr: stdErr,
	}, nil
}
