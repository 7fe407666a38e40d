package confidence

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gocompare/carkeet"
	"github.com/sartorproj/gocompare/dispatch"
	"github.com/sartorproj/gocompare/logger"
	"github.com/sartorproj/gocompare/serrors"
)

// Method selects how the intervals on the limits of agreement are computed.
type Method string

const (
	// ExactPaired uses the exact paired coefficients of Carkeet (2015).
	ExactPaired Method = "exact paired"
	// Approximate uses the closed-form standard error of a limit of
	// agreement with a Student-t quantile.
	Approximate Method = "approximate"
)

const (
	// MinPercent and MaxPercent bound the accepted confidence level
	// (exclusive).
	MinPercent = 1.0
	MaxPercent = 99.9
)

// ParseMethod maps a method name to a Method, ignoring case.
func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case ExactPaired:
		return ExactPaired, nil
	case Approximate:
		return Approximate, nil
	default:
		return "", serrors.UnsupportedMethod("confidence interval", name)
	}
}

// Interval is a closed interval [Low, High].
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns High - Low.
func (i Interval) Width() float64 {
	return i.High - i.Low
}

// Contains reports whether v lies in the interval.
func (i Interval) Contains(v float64) bool {
	return v >= i.Low && v <= i.High
}

// Intervals are the confidence intervals of a Bland-Altman analysis.
type Intervals struct {
	Mean     Interval `json:"mean"`
	UpperLoA Interval `json:"upperLoA"`
	LowerLoA Interval `json:"lowerLoA"`
}

// ByName returns the intervals keyed "mean", "upperLoA" and "lowerLoA".
func (c *Intervals) ByName() map[string]Interval {
	return map[string]Interval{
		"mean":     c.Mean,
		"upperLoA": c.UpperLoA,
		"lowerLoA": c.LowerLoA,
	}
}

// Calculator computes confidence intervals, solving exact paired
// coefficients through a Dispatcher.
type Calculator struct {
	dispatcher dispatch.Dispatcher
}

// New returns a Calculator using dispatcher for the exact paired method.
// A nil dispatcher runs the default estimator in parallel.
func New(dispatcher dispatch.Dispatcher) *Calculator {
	if dispatcher == nil {
		dispatcher = dispatch.New(carkeet.New(nil))
	}
	return &Calculator{dispatcher: dispatcher}
}

// Calculate computes intervals with the default Calculator.
func Calculate(
	ctx context.Context,
	md, sd float64,
	n int,
	limitOfAgreement, percent float64,
	method Method,
) (*Intervals, error) {
	return New(nil).Calculate(ctx, md, sd, n, limitOfAgreement, percent, method)
}

// Calculate returns the percent confidence intervals on the mean difference
// md and on the limits md ± limitOfAgreement·sd of a sample of n pairs.
// percent must lie strictly between MinPercent and MaxPercent.
func (c *Calculator) Calculate(
	ctx context.Context,
	md, sd float64,
	n int,
	limitOfAgreement, percent float64,
	method Method,
) (*Intervals, error) {
	if !(percent > MinPercent && percent < MaxPercent) {
		return nil, serrors.InvalidArgument(
			"confidence interval must be a number in the range %g to %g, got %g", MinPercent, MaxPercent, percent)
	}

	m, err := ParseMethod(string(method))
	if err != nil {
		return nil, err
	}

	if err := validate(md, sd, n, limitOfAgreement); err != nil {
		return nil, err
	}

	ci := percent / 100
	out := &Intervals{Mean: meanInterval(md, sd, n, ci)}

	switch m {
	case ExactPaired:
		k, err := c.dispatcher.Coefficients(ctx, n, ci, limitOfAgreement)
		if err != nil {
			return nil, err
		}
		out.UpperLoA = Interval{Low: md + k.Inner*sd, High: md + k.Outer*sd}
		out.LowerLoA = Interval{Low: md - k.Outer*sd, High: md - k.Inner*sd}

	case Approximate:
		r := approximateRange(sd, n, limitOfAgreement, ci)
		upper := md + limitOfAgreement*sd
		lower := md - limitOfAgreement*sd
		out.UpperLoA = Interval{Low: upper + r, High: upper - r}
		out.LowerLoA = Interval{Low: lower + r, High: lower - r}
	}

	logger.Debug(ctx, "confidence intervals",
		zap.String("method", string(m)),
		zap.Float64("percent", percent),
		zap.Float64s("mean", []float64{out.Mean.Low, out.Mean.High}),
		zap.Float64s("upperLoA", []float64{out.UpperLoA.Low, out.UpperLoA.High}),
		zap.Float64s("lowerLoA", []float64{out.LowerLoA.Low, out.LowerLoA.High}),
	)

	return out, nil
}

func validate(md, sd float64, n int, limitOfAgreement float64) error {
	switch {
	case n < 2:
		return serrors.InvalidArgument("sample size must be at least 2, got %d", n)
	case math.IsNaN(md) || math.IsInf(md, 0):
		return serrors.InvalidArgument("mean difference must be finite, got %g", md)
	case math.IsNaN(sd) || math.IsInf(sd, 0) || sd < 0:
		return serrors.InvalidArgument("standard deviation must be finite and non-negative, got %g", sd)
	case !(limitOfAgreement > 0) || math.IsInf(limitOfAgreement, 1):
		return serrors.InvalidArgument("limit of agreement must be positive and finite, got %g", limitOfAgreement)
	}
	return nil
}

// meanInterval is the normal interval md ± z·sd/√n.
func meanInterval(md, sd float64, n int, ci float64) Interval {
	z := distuv.UnitNormal.Quantile(1 - (1-ci)/2)
	half := z * sd / math.Sqrt(float64(n))
	return Interval{Low: md - half, High: md + half}
}

// approximateRange returns √seLoA · t_{n-1}((1-ci)/2), which is negative.
func approximateRange(sd float64, n int, limitOfAgreement, ci float64) float64 {
	nf := float64(n)
	seLoA := (1/nf + limitOfAgreement*limitOfAgreement/(2*(nf-1))) * sd * sd
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nf - 1}
	return math.Sqrt(seLoA) * t.Quantile((1-ci)/2)
}
