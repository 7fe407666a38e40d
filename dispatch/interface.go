package dispatch

import (
	"context"
)

// Coefficients holds the two exact paired coefficients bounding a
// two-sided confidence interval on a limit of agreement.
type Coefficients struct {
	Inner float64 // solved at gamma = (1-confidence)/2
	Outer float64 // solved at gamma = 1-(1-confidence)/2
}

// Solver returns the exact paired coefficient for one probability gamma.
//
//go:generate mockgen -package mockdispatch -source=interface.go -destination=mock/mockdispatch.go *
type Solver interface {
	Coefficient(ctx context.Context, n int, gamma, limitOfAgreement float64) (float64, error)
}

// Dispatcher solves the inner and outer coefficients of a confidence level.
type Dispatcher interface {
	Coefficients(ctx context.Context, n int, confidence, limitOfAgreement float64) (Coefficients, error)
}
