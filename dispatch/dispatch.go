package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/gocompare/logger"
	"github.com/sartorproj/gocompare/serrors"
)

const (
	inner = iota
	outer
)

var roleNames = [...]string{inner: "inner", outer: "outer"}

// gammas returns the probabilities the inner and outer coefficients are
// solved for.
func gammas(confidence float64) ([2]float64, error) {
	if !(confidence > 0 && confidence < 1) {
		return [2]float64{}, serrors.InvalidArgument("confidence must be in (0, 1), got %g", confidence)
	}
	tail := (1 - confidence) / 2
	return [2]float64{inner: tail, outer: 1 - tail}, nil
}

// Parallel solves the inner and outer coefficients concurrently.
type Parallel struct {
	solver Solver
}

var _ Dispatcher = (*Parallel)(nil)

// New returns a Parallel dispatcher over solver.
func New(solver Solver) *Parallel {
	return &Parallel{solver: solver}
}

// Coefficients solves both coefficients in their own goroutines. Each
// goroutine writes only the slot of its role, so the result does not depend
// on which call finishes first. The first failure cancels the other call.
func (p *Parallel) Coefficients(
	ctx context.Context,
	n int,
	confidence, limitOfAgreement float64,
) (Coefficients, error) {
	g, err := gammas(confidence)
	if err != nil {
		return Coefficients{}, err
	}

	var ks [2]float64
	eg, egCtx := errgroup.WithContext(ctx)

	for role := range g {
		role := role
		eg.Go(func() error {
			k, err := p.solver.Coefficient(egCtx, n, g[role], limitOfAgreement)
			if err != nil {
				logger.Debug(egCtx, "coefficient failed",
					zap.String("role", roleNames[role]),
					zap.Error(err),
				)
				return fmt.Errorf("%s coefficient: %w", roleNames[role], err)
			}
			ks[role] = k
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return Coefficients{}, err
	}

	return Coefficients{Inner: ks[inner], Outer: ks[outer]}, nil
}

// Sequential solves the inner then the outer coefficient on the calling
// goroutine.
type Sequential struct {
	solver Solver
}

var _ Dispatcher = (*Sequential)(nil)

// NewSequential returns a Sequential dispatcher over solver.
func NewSequential(solver Solver) *Sequential {
	return &Sequential{solver: solver}
}

// Coefficients implements Dispatcher.
func (s *Sequential) Coefficients(
	ctx context.Context,
	n int,
	confidence, limitOfAgreement float64,
) (Coefficients, error) {
	g, err := gammas(confidence)
	if err != nil {
		return Coefficients{}, err
	}

	var ks [2]float64
	for role := range g {
		k, err := s.solver.Coefficient(ctx, n, g[role], limitOfAgreement)
		if err != nil {
			return Coefficients{}, fmt.Errorf("%s coefficient: %w", roleNames[role], err)
		}
		ks[role] = k
	}

	return Coefficients{Inner: ks[inner], Outer: ks[outer]}, nil
}
