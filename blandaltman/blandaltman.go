package blandaltman

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/sartorproj/gocompare/confidence"
	"github.com/sartorproj/gocompare/detrend"
	"github.com/sartorproj/gocompare/dispatch"
	"github.com/sartorproj/gocompare/logger"
	"github.com/sartorproj/gocompare/paired"
	"github.com/sartorproj/gocompare/serrors"
)

// Config holds the analysis parameters.
type Config struct {
	LimitOfAgreement         float64             // Multiple of sd the limits are drawn at (default: 1.96)
	ConfidenceInterval       float64             // Percent; 0 disables the intervals (default: 95)
	ConfidenceIntervalMethod string              // "exact paired" or "approximate" (default: "exact paired")
	DetrendMethod            string              // "", "none", "linear" or "odr" (default: "")
	Dispatcher               dispatch.Dispatcher // Solves exact paired coefficients (default: parallel estimator)
}

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() *Config {
	return &Config{
		LimitOfAgreement:         1.96,
		ConfidenceInterval:       95,
		ConfidenceIntervalMethod: string(confidence.ExactPaired),
	}
}

// DetrendSummary describes the scale adjustment applied to the second
// series. Slope and SlopeStdErr are nil when no adjustment was made.
type DetrendSummary struct {
	Method      string   `json:"method"`
	Slope       *float64 `json:"slope,omitempty"`
	SlopeStdErr *float64 `json:"slopeStdErr,omitempty"`
}

// Result is the outcome of a Bland-Altman analysis.
type Result struct {
	MeanDiff            float64               `json:"meanDifference"`
	StdDiff             float64               `json:"stdDifference"`
	SampleCount         int                   `json:"sampleCount"`
	LimitOfAgreement    float64               `json:"limitOfAgreement"`
	UpperLimit          float64               `json:"upperLimit"`
	LowerLimit          float64               `json:"lowerLimit"`
	ConfidenceLevel     float64               `json:"confidenceLevel,omitempty"`
	ConfidenceMethod    string                `json:"confidenceMethod,omitempty"`
	ConfidenceIntervals *confidence.Intervals `json:"confidenceIntervals,omitempty"`
	Detrend             DetrendSummary        `json:"detrend"`

	// Plot coordinates: mean of each pair against its difference.
	Means       []float64 `json:"means"`
	Differences []float64 `json:"differences"`

	// Sample is the analysed sample, with the second series rescaled when
	// detrending was applied.
	Sample *paired.Sample `json:"-"`
}

// Analyze compares two paired series of measurements. first and second must
// have the same length of at least two.
func Analyze(ctx context.Context, first, second []float64, config *Config) (*Result, error) {
	sample, err := paired.New(first, second)
	if err != nil {
		return nil, err
	}
	return AnalyzeSample(ctx, sample, config)
}

// AnalyzeSample is Analyze for a sample that has already been built.
func AnalyzeSample(ctx context.Context, sample *paired.Sample, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}

	loa := config.LimitOfAgreement
	if !(loa > 0) || math.IsInf(loa, 1) {
		return nil, serrors.InvalidArgument("limit of agreement must be a number greater than zero, got %g", loa)
	}

	if sample.Name != "" {
		ctx = logger.WithFields(ctx, zap.String("sample", sample.Name))
	}

	dt, err := detrend.ByName(config.DetrendMethod, sample.First, sample.Second)
	if err != nil {
		return nil, err
	}
	if dt.Method != detrend.None {
		if sample, err = sample.WithSecond(dt.Adjusted); err != nil {
			return nil, err
		}
	}

	summary := sample.Summary()
	lower, upper := summary.Limits(loa)

	res := &Result{
		MeanDiff:         summary.MeanDiff,
		StdDiff:          summary.StdDiff,
		SampleCount:      summary.N,
		LimitOfAgreement: loa,
		UpperLimit:       upper,
		LowerLimit:       lower,
		Detrend: DetrendSummary{
			Method:      dt.Method.String(),
			Slope:       dt.Slope,
			SlopeStdErr: dt.SlopeStdErr,
		},
		Means:       sample.Means(),
		Differences: sample.Differences(),
		Sample:      sample,
	}

	if config.ConfidenceInterval != 0 {
		method := confidence.Method(config.ConfidenceIntervalMethod)
		ci, err := confidence.New(config.Dispatcher).Calculate(
			ctx, summary.MeanDiff, summary.StdDiff, summary.N, loa, config.ConfidenceInterval, method)
		if err != nil {
			return nil, err
		}
		res.ConfidenceLevel = config.ConfidenceInterval
		res.ConfidenceMethod = config.ConfidenceIntervalMethod
		res.ConfidenceIntervals = ci
	}

	logger.Info(ctx, "bland-altman analysis",
		zap.Int("n", res.SampleCount),
		zap.Float64("meanDiff", res.MeanDiff),
		zap.Float64("stdDiff", res.StdDiff),
		zap.Float64("upperLimit", res.UpperLimit),
		zap.Float64("lowerLimit", res.LowerLimit),
		zap.String("detrend", res.Detrend.Method),
	)

	return res, nil
}
