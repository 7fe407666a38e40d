package carkeet

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sartorproj/gocompare/logger"
	"github.com/sartorproj/gocompare/serrors"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 200, config.MaxIterations)
	assert.Equal(t, 1e-8, config.Tolerance)
	assert.Equal(t, 2e-15, config.RootTolerance)
	assert.Equal(t, 100, config.MaxRootIterations)
}

func TestNewFillsDefaults(t *testing.T) {
	est := New(&Config{MaxIterations: 10})
	cfg := est.Config()

	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, 1e-8, cfg.Tolerance)
	assert.Equal(t, 2e-15, cfg.RootTolerance)
	assert.Equal(t, 100, cfg.MaxRootIterations)

	assert.Equal(t, *DefaultConfig(), New(nil).Config())
}

func TestEstimateReference(t *testing.T) {
	testCases := []struct {
		n     int
		gamma float64
		want  float64
	}{
		{3, 0.025, 1.1050797700881958},
		{3, 0.975, 13.93988037109375},
		{5, 0.025, 1.239752173423767},
		{5, 0.975, 6.157009124755859},
		{5, 0.05, 1.3481473326683044},
		{5, 0.95, 5.076963901519775},
		{10, 0.025, 1.3914809226989746},
		{10, 0.975, 3.770707130432129},
		{20, 0.025, 1.5175044536590576},
		{20, 0.975, 2.9445290565490723},
		{50, 0.05, 1.6985529959201813},
		{50, 0.95, 2.381603479385376},
		{85, 0.025, 1.7117190062999725},
		{85, 0.975, 2.3240147829055786},
		{200, 0.005, 1.7382025718688965},
		{200, 0.995, 2.2536203861236572},
		{2, 0.995, 365.4541015625},
		{2, 0.999, 1827.28125},
		{3, 0.999, 70.1552734375},
	}

	for _, tc := range testCases {
		got, err := Estimate(tc.n, tc.gamma, 1.96)
		require.NoError(t, err, "n=%d gamma=%g", tc.n, tc.gamma)
		assert.InDelta(t, tc.want, got, 0.001, "n=%d gamma=%g", tc.n, tc.gamma)
	}
}

func TestSolveLargeCoefficients(t *testing.T) {
	// Small samples at high confidence put K far above the starting step.
	for _, tc := range []struct {
		n     int
		gamma float64
	}{
		{2, 0.995},
		{2, 0.9975},
		{2, 0.999},
		{3, 0.999},
	} {
		res, err := New(nil).Solve(context.Background(), tc.n, tc.gamma, 1.96)
		require.NoError(t, err, "n=%d gamma=%g", tc.n, tc.gamma)
		assert.InDelta(t, tc.gamma, res.GammaEstimate, 1e-8)
		assert.Less(t, res.Iterations, 60, "n=%d gamma=%g", tc.n, tc.gamma)
	}
}

func TestSolveReportsEstimate(t *testing.T) {
	res, err := New(nil).Solve(context.Background(), 20, 0.975, 1.96)
	require.NoError(t, err)

	assert.InDelta(t, 2.9445, res.Coefficient, 0.001)
	assert.InDelta(t, 0.975, res.GammaEstimate, 1e-8)
	assert.Greater(t, res.Iterations, 0)
	assert.Less(t, res.Iterations, 50)
}

func TestCoefficientsBracketLimit(t *testing.T) {
	// The inner and outer coefficients of a two-sided interval straddle the
	// limit multiplier and close in on it as n grows.
	prevWidth := math.Inf(1)
	for _, n := range []int{10, 40, 160} {
		inner, err := Estimate(n, 0.025, 1.96)
		require.NoError(t, err)
		outer, err := Estimate(n, 0.975, 1.96)
		require.NoError(t, err)

		assert.Less(t, inner, 1.96)
		assert.Greater(t, outer, 1.96)
		assert.Less(t, outer-inner, prevWidth)
		prevWidth = outer - inner
	}
}

func TestSolveDidNotConverge(t *testing.T) {
	est := New(&Config{MaxIterations: 3})

	// K = 4 overshoots at once, so the halving phase gets three more steps.
	_, err := est.Solve(context.Background(), 10, 0.025, 1.96)
	require.Error(t, err)
	assert.ErrorIs(t, err, serrors.ErrDidNotConverge)
	assert.Contains(t, err.Error(), "4 iterations")
	assert.Contains(t, err.Error(), "bracketed true")

	// Growth alone reaches K = 28 in three steps, far short of the target.
	_, err = est.Solve(context.Background(), 2, 0.999, 1.96)
	require.Error(t, err)
	assert.ErrorIs(t, err, serrors.ErrDidNotConverge)
	assert.Contains(t, err.Error(), "3 iterations at K=28")
	assert.Contains(t, err.Error(), "bracketed false")
}

func TestSolveDoublesUntilOvershoot(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	_, err := New(nil).Solve(ctx, 2, 0.995, 1.96)
	require.NoError(t, err)

	steps := logs.FilterMessage("coefficient search step").All()
	require.Greater(t, len(steps), 4)
	for i, want := range []float64{4, 12, 28, 60} {
		assert.Equal(t, want, steps[i].ContextMap()["k"], "step %d", i+1)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Solve(ctx, 10, 0.025, 1.96)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		n     int
		gamma float64
		loa   float64
	}{
		{"n below 2", 1, 0.5, 1.96},
		{"gamma zero", 10, 0, 1.96},
		{"gamma one", 10, 1, 1.96},
		{"gamma NaN", 10, math.NaN(), 1.96},
		{"loa zero", 10, 0.5, 0},
		{"loa negative", 10, 0.5, -1},
		{"loa NaN", 10, 0.5, math.NaN()},
		{"loa Inf", 10, 0.5, math.Inf(1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Estimate(tc.n, tc.gamma, tc.loa)
			assert.ErrorIs(t, err, serrors.ErrInvalidArgument)
		})
	}
}

func TestSolveLogsSteps(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	res, err := New(nil).Solve(ctx, 10, 0.975, 1.96)
	require.NoError(t, err)

	steps := logs.FilterMessage("coefficient search step")
	assert.Equal(t, res.Iterations, steps.Len())

	first := steps.All()[0].ContextMap()
	assert.Equal(t, int64(10), first["n"])
	assert.Equal(t, 4.0, first["k"])
}

func TestChiTailClamps(t *testing.T) {
	in := newIntegrand(10, 1.96, *DefaultConfig())

	assert.Equal(t, 0.0, in.chiTail(1, 0))
	assert.Equal(t, 1.0, in.chiTail(0, 2))
	assert.Equal(t, 0.0, in.chiTail(math.Inf(1), 2))
	assert.Equal(t, 0.0, in.chiTail(math.NaN(), 2))

	got := in.chiTail(9, 1)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestHalfWidth(t *testing.T) {
	in := newIntegrand(10, 1.96, *DefaultConfig())

	for _, x := range []float64{0, 0.3, 1.2, 2.5} {
		r := in.halfWidth(x)
		coverage := normalCDF(x+r) - normalCDF(x-r)
		assert.InDelta(t, in.p, coverage, 1e-12, "x=%g", x)
	}

	// At x = 0 the interval is ±loa itself.
	assert.InDelta(t, 1.96, in.halfWidth(0), 1e-9)
}

func TestGridHasOddLength(t *testing.T) {
	for _, n := range []int{2, 3, 10, 85, 200} {
		in := newIntegrand(n, 1.96, *DefaultConfig())
		assert.Equal(t, 1, in.boxes%2, "n=%d", n)
		assert.LessOrEqual(t, in.boxes, len(in.grid))
		assert.GreaterOrEqual(t, in.boxes, len(in.grid)-1)
	}
}

func normalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
