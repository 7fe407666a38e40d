package carkeet

import (
	"context"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gocompare/logger"
	"github.com/sartorproj/gocompare/serrors"
)

// Config holds the stopping rules of the coefficient search.
type Config struct {
	MaxIterations     int     // Maximum steps per search phase (default: 200)
	Tolerance         float64 // Target |estimate - gamma| (default: 1e-8)
	RootTolerance     float64 // Coverage error of the inner root search (default: 2e-15)
	MaxRootIterations int     // Maximum secant steps per grid point (default: 100)
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxIterations:     200,
		Tolerance:         1e-8,
		RootTolerance:     2e-15,
		MaxRootIterations: 100,
	}
}

// Result is the outcome of a coefficient search.
type Result struct {
	Coefficient   float64 // K such that the sample LoA at md ± K·sd has the requested coverage probability
	GammaEstimate float64 // Probability reached at Coefficient
	Iterations    int     // Search steps taken across both phases
}

// Estimator searches for exact paired coefficients. It holds no mutable
// state and is safe for concurrent use.
type Estimator struct {
	config Config
}

// New returns an Estimator using config, or DefaultConfig when config is nil.
// Zero fields fall back to their defaults.
func New(config *Config) *Estimator {
	cfg := *DefaultConfig()
	if config != nil {
		if config.MaxIterations > 0 {
			cfg.MaxIterations = config.MaxIterations
		}
		if config.Tolerance > 0 {
			cfg.Tolerance = config.Tolerance
		}
		if config.RootTolerance > 0 {
			cfg.RootTolerance = config.RootTolerance
		}
		if config.MaxRootIterations > 0 {
			cfg.MaxRootIterations = config.MaxRootIterations
		}
	}
	return &Estimator{config: cfg}
}

// Config returns a copy of the configuration in use.
func (e *Estimator) Config() Config {
	return e.config
}

// Estimate returns the exact paired coefficient with the default
// configuration.
func Estimate(n int, gamma, limitOfAgreement float64) (float64, error) {
	return New(nil).Coefficient(context.Background(), n, gamma, limitOfAgreement)
}

// Coefficient returns the coefficient K for a sample of n pairs such that
// the probability that md + K·sd lies below the population limit
// μ + limitOfAgreement·σ equals gamma.
func (e *Estimator) Coefficient(ctx context.Context, n int, gamma, limitOfAgreement float64) (float64, error) {
	res, err := e.Solve(ctx, n, gamma, limitOfAgreement)
	if err != nil {
		return 0, err
	}
	return res.Coefficient, nil
}

// Solve runs the coefficient search and reports how it ended.
//
// The search starts at K = 4 and doubles the step until the estimated
// probability first overshoots gamma. From then on it reverses direction and
// halves the step on every overshoot. MaxIterations bounds each phase
// separately.
func (e *Estimator) Solve(ctx context.Context, n int, gamma, limitOfAgreement float64) (*Result, error) {
	if n < 2 {
		return nil, serrors.InvalidArgument("sample size must be at least 2, got %d", n)
	}
	if !(gamma > 0 && gamma < 1) {
		return nil, serrors.InvalidArgument("gamma must be in (0, 1), got %g", gamma)
	}
	if !(limitOfAgreement > 0) || math.IsInf(limitOfAgreement, 1) {
		return nil, serrors.InvalidArgument("limit of agreement must be positive and finite, got %g", limitOfAgreement)
	}

	ctx = logger.WithFields(ctx,
		zap.Int("n", n),
		zap.Float64("gamma", gamma),
		zap.Float64("loa", limitOfAgreement),
	)

	in := newIntegrand(n, limitOfAgreement, e.config)

	var (
		k         float64
		kStep     = 4.0
		directK   = 1.0
		estimate  float64
		bracketed bool
		phaseIter int
		iter      int
	)

	for phaseIter < e.config.MaxIterations {
		iter++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		phaseIter++

		k += kStep
		estimate = in.gamma(k)

		logger.Debug(ctx, "coefficient search step",
			zap.Int("iteration", iter),
			zap.Float64("k", k),
			zap.Float64("estimate", estimate),
			zap.Bool("bracketed", bracketed),
		)

		switch {
		case estimate*directK > gamma*directK:
			directK = -directK
			kStep = -kStep / 2
			if !bracketed {
				bracketed = true
				phaseIter = 0
			}
		case !bracketed:
			kStep *= 2
		}

		if math.Abs(estimate-gamma) <= e.config.Tolerance {
			return &Result{Coefficient: k, GammaEstimate: estimate, Iterations: iter}, nil
		}
	}

	logger.Warn(ctx, "coefficient search did not converge",
		zap.Float64("k", k),
		zap.Float64("estimate", estimate),
	)

	return nil, serrors.With(serrors.ErrDidNotConverge,
		"coefficient search stopped after %d iterations at K=%g (estimate %g, target %g, bracketed %t)",
		iter, k, estimate, gamma, bracketed)
}

// integrand evaluates the coverage probability of a candidate coefficient
// by integrating over the standardised sample mean with Simpson's rule.
type integrand struct {
	n        float64
	chi      distuv.ChiSquared
	p        float64 // population coverage between ±loa
	start    float64 // initial half-width guess at x = 0
	stepper  float64
	boxes    int
	grid     []float64
	rootTol  float64
	rootIter int
}

func newIntegrand(n int, limitOfAgreement float64, cfg Config) *integrand {
	nf := float64(n)
	p := distuv.UnitNormal.CDF(limitOfAgreement) - distuv.UnitNormal.CDF(-limitOfAgreement)

	stepper := 0.05 / nf
	topRange := 8/math.Sqrt(nf) + stepper
	count := int(math.Ceil(topRange / stepper))
	boxes := count
	if boxes%2 == 0 {
		boxes--
	}

	grid := make([]float64, count)
	for i := range grid {
		grid[i] = float64(i) * stepper
	}

	return &integrand{
		n:        nf,
		chi:      distuv.ChiSquared{K: nf - 1},
		p:        p,
		start:    distuv.UnitNormal.Quantile(0.5 + p/2),
		stepper:  stepper,
		boxes:    boxes,
		grid:     grid,
		rootTol:  cfg.RootTolerance,
		rootIter: cfg.MaxRootIterations,
	}
}

// gamma returns the probability estimate for coefficient k.
func (in *integrand) gamma(k float64) float64 {
	df := in.n - 1
	comb := make([]float64, in.boxes)
	for s := 0; s < in.boxes-1; s++ {
		x := in.grid[s]
		r := in.halfWidth(x)
		comb[s] = in.chiTail(df*r*r, k) * math.Exp(-(in.n/2)*x*x)
	}

	shrink := 2 * math.Sqrt(in.n/(2*math.Pi))
	sum := 0.0
	for s := 0; s < in.boxes-2; s += 2 {
		mid := comb[s+1] * in.stepper * 2
		trap := (comb[s] + comb[s+2]) * in.stepper
		sum += (mid*2 + trap) / 3 * shrink
	}
	return sum
}

// chiTail returns P(χ²_df > q/k²) with degenerate arguments clamped.
func (in *integrand) chiTail(q, k float64) float64 {
	if k == 0 {
		return 0
	}
	arg := q / (k * k)
	switch {
	case math.IsNaN(arg), math.IsInf(arg, 1):
		return 0
	case arg <= 0:
		return 1
	}
	return in.chi.Survival(arg)
}

// halfWidth solves Φ(x+r) - Φ(x-r) = p for r by the secant method.
func (in *integrand) halfWidth(x float64) float64 {
	coverage := func(r float64) float64 {
		return distuv.UnitNormal.CDF(x+r) - distuv.UnitNormal.CDF(x-r)
	}

	prevR := in.start + x - 0.1
	prevP := coverage(prevR)
	r := prevR + 0.11
	pe := coverage(r)

	for i := 0; i <= in.rootIter; i++ {
		perr := pe - in.p
		if i > 0 && math.Abs(perr) <= in.rootTol {
			break
		}
		dp := pe - prevP
		if dp == 0 {
			break
		}
		next := r - perr/dp*(r-prevR)
		prevR, prevP = r, pe
		r = next
		pe = coverage(r)
	}
	return r
}
