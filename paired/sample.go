package paired

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gocompare/serrors"
)

// MinLen is the smallest number of pairs a sample can hold.
const MinLen = 2

// Sample holds two ordered series of measurements of the same quantities.
// First[i] and Second[i] are two methods' readings of observation i.
type Sample struct {
	First  []float64
	Second []float64
	Name   string
}

// Summary holds the difference statistics a Bland-Altman analysis is built on.
type Summary struct {
	MeanDiff float64 // mean of First - Second
	StdDiff  float64 // population standard deviation (divisor n) of the differences
	N        int
}

// New creates a sample from two series. Both series are copied; they must
// have the same length of at least MinLen and contain only finite values.
func New(first, second []float64) (*Sample, error) {
	if len(first) != len(second) {
		return nil, serrors.InvalidArgument("paired series must have the same length, got %d and %d",
			len(first), len(second))
	}
	if len(first) < MinLen {
		return nil, serrors.InvalidArgument("at least %d pairs are required, got %d", MinLen, len(first))
	}
	if i := firstNonFinite(first); i >= 0 {
		return nil, serrors.InvalidArgument("first series has non-finite value %v at index %d", first[i], i)
	}
	if i := firstNonFinite(second); i >= 0 {
		return nil, serrors.InvalidArgument("second series has non-finite value %v at index %d", second[i], i)
	}

	return &Sample{
		First:  append([]float64(nil), first...),
		Second: append([]float64(nil), second...),
	}, nil
}

func firstNonFinite(values []float64) int {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

// Len returns the number of pairs.
func (s *Sample) Len() int {
	return len(s.First)
}

// Differences returns First[i] - Second[i] for every pair.
func (s *Sample) Differences() []float64 {
	diff := make([]float64, len(s.First))
	for i := range s.First {
		diff[i] = s.First[i] - s.Second[i]
	}
	return diff
}

// Means returns the mean of each pair, the x coordinate of a Bland-Altman plot.
func (s *Sample) Means() []float64 {
	means := make([]float64, len(s.First))
	for i := range s.First {
		means[i] = (s.First[i] + s.Second[i]) / 2
	}
	return means
}

// Summary calculates the mean and population standard deviation of the
// differences.
func (s *Sample) Summary() Summary {
	md, sd := stat.PopMeanStdDev(s.Differences(), nil)
	return Summary{
		MeanDiff: md,
		StdDiff:  sd,
		N:        s.Len(),
	}
}

// WithSecond returns a copy of the sample whose second series is replaced,
// for example by a detrended version.
func (s *Sample) WithSecond(second []float64) (*Sample, error) {
	out, err := New(s.First, second)
	if err != nil {
		return nil, err
	}
	out.Name = s.Name
	return out, nil
}

// Limits returns the limits of agreement md - loa*sd and md + loa*sd.
func (s Summary) Limits(limitOfAgreement float64) (lower, upper float64) {
	return s.MeanDiff - limitOfAgreement*s.StdDiff, s.MeanDiff + limitOfAgreement*s.StdDiff
}

// Range returns the minimum and maximum of values, or NaN for an empty slice.
func Range(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
