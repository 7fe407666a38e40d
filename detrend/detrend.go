package detrend

import (
	"strings"

	"github.com/sartorproj/gocompare/serrors"
)

// Method selects how the scale offset is modelled.
type Method string

const (
	// None leaves the second series untouched.
	None Method = ""
	// Linear fits ordinary least squares of the second series on the first.
	Linear Method = "linear"
	// ODR fits an orthogonal distance regression, allowing for error in both
	// series.
	ODR Method = "odr"
)

// String returns the method name, "none" for None.
func (m Method) String() string {
	if m == None {
		return "none"
	}
	return string(m)
}

// ParseMethod maps a method name to a Method, ignoring case.
// The empty string and "none" both select None.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case string(Linear):
		return Linear, nil
	case string(ODR):
		return ODR, nil
	default:
		return None, serrors.UnsupportedMethod("detrending", name)
	}
}

// Result is the outcome of detrending. Slope, SlopeStdErr and Intercept are
// nil when no model was fitted.
type Result struct {
	Method      Method
	Adjusted    []float64 // second series divided by Slope
	Slope       *float64
	SlopeStdErr *float64
	Intercept   *float64
}

// Detrend models series2 ≈ slope·series1 + intercept with the given method
// and returns series2/slope. With None the second series is returned as is.
// The inputs are never modified.
func Detrend(method Method, series1, series2 []float64) (*Result, error) {
	m, err := ParseMethod(string(method))
	if err != nil {
		return nil, err
	}

	if m == None {
		return &Result{Method: None, Adjusted: series2}, nil
	}

	if len(series1) != len(series2) {
		return nil, serrors.InvalidArgument("series must have the same length, got %d and %d",
			len(series1), len(series2))
	}

	var f *fit
	switch m {
	case Linear:
		f, err = fitLinear(series1, series2)
	case ODR:
		f, err = fitODR(series1, series2)
	}
	if err != nil {
		return nil, err
	}

	if f.slope == 0 {
		return nil, serrors.InvalidArgument("%s fit has zero slope, cannot rescale second series", m)
	}

	adjusted := make([]float64, len(series2))
	for i, v := range series2 {
		adjusted[i] = v / f.slope
	}

	return &Result{
		Method:      m,
		Adjusted:    adjusted,
		Slope:       &f.slope,
		SlopeStdErr: &f.slopeStdErr,
		Intercept:   &f.intercept,
	}, nil
}

// ByName parses name with ParseMethod and calls Detrend.
func ByName(name string, series1, series2 []float64) (*Result, error) {
	m, err := ParseMethod(name)
	if err != nil {
		return nil, err
	}
	return Detrend(m, series1, series2)
}

// fit holds the parameters of a fitted straight line.
type fit struct {
	slope       float64
	intercept   float64
	slopeStdErr float64
	iterations  int
}
