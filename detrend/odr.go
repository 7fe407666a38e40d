package detrend

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gocompare/serrors"
)

const (
	odrMaxIterations = 100
	odrMaxDamping    = 30
	odrParTol        = 1e-12

	// Initial guess for (slope, intercept).
	odrSlope0     = 1.0
	odrIntercept0 = 2.0
)

// odrProblem is the weighted orthogonal distance regression of the model
// y = slope·x + intercept, minimising
//
//	Σ we·(y_i - slope·x*_i - intercept)² + wd·(x_i - x*_i)²
//
// over the parameters and the corrected inputs x*. For a straight line the
// corrections have a closed form, which leaves a two-parameter weighted least
// squares problem in (slope, intercept) with weight we·wd/(wd + slope²·we).
//
// The solver iterates on x centred at its mean and on the fitted value at
// that mean; the intercept is recovered once it stops.
type odrProblem struct {
	x, y   []float64
	xc     []float64 // x minus its mean
	wd, we float64
}

func (p *odrProblem) weight(slope float64) float64 {
	return p.we * p.wd / (p.wd + slope*slope*p.we)
}

// residuals fills r with the reduced residuals and returns their sum of
// squares. centre is the fitted value at the mean of x.
func (p *odrProblem) residuals(slope, centre float64, r []float64) float64 {
	sw := math.Sqrt(p.weight(slope))
	sum := 0.0
	for i := range p.xc {
		r[i] = sw * (p.y[i] - slope*p.xc[i] - centre)
		sum += r[i] * r[i]
	}
	return sum
}

// jacobian fills jac (n×2) with the derivatives of the reduced residuals.
func (p *odrProblem) jacobian(slope, centre float64, jac *mat.Dense) {
	sw := math.Sqrt(p.weight(slope))
	dsw := -sw * slope * p.we / (p.wd + slope*slope*p.we)
	for i := range p.xc {
		e := p.y[i] - slope*p.xc[i] - centre
		jac.Set(i, 0, -sw*p.xc[i]+e*dsw)
		jac.Set(i, 1, -sw)
	}
}

// fitODR fits the orthogonal distance regression of y on x with each axis
// weighted by the inverse of its own population variance.
func fitODR(x, y []float64) (*fit, error) {
	n := len(x)
	if n < 3 {
		return nil, serrors.InvalidArgument("odr detrending needs at least 3 pairs, got %d", n)
	}

	vx := stat.PopVariance(x, nil)
	vy := stat.PopVariance(y, nil)
	if vx == 0 || vy == 0 {
		return nil, serrors.InvalidArgument("odr detrending needs non-constant series")
	}

	mx := stat.Mean(x, nil)
	xc := make([]float64, n)
	for i, v := range x {
		xc[i] = v - mx
	}
	p := &odrProblem{x: x, y: y, xc: xc, wd: 1 / vx, we: 1 / vy}

	slope := odrSlope0
	centre := odrIntercept0 + odrSlope0*mx
	r := make([]float64, n)
	trial := make([]float64, n)
	jac := mat.NewDense(n, 2, nil)
	lambda := 1e-3

	sumSq := p.residuals(slope, centre, r)

	converged := false
	iter := 0
	for iter = 1; iter <= odrMaxIterations; iter++ {
		if sumSq == 0 {
			converged = true
			break
		}

		p.jacobian(slope, centre, jac)

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var grad mat.VecDense
		grad.MulVec(jac.T(), mat.NewVecDense(n, r))

		accepted := false
		var dSlope, dCentre, trialSumSq float64
		for k := 0; k < odrMaxDamping; k++ {
			a := mat.NewDense(2, 2, []float64{
				jtj.At(0, 0) * (1 + lambda), jtj.At(0, 1),
				jtj.At(1, 0), jtj.At(1, 1) * (1 + lambda),
			})
			var step mat.VecDense
			if err := step.SolveVec(a, &grad); err != nil {
				lambda *= 10
				continue
			}
			dSlope, dCentre = -step.AtVec(0), -step.AtVec(1)

			trialSumSq = p.residuals(slope+dSlope, centre+dCentre, trial)
			if trialSumSq < sumSq {
				accepted = true
				break
			}
			lambda *= 10
		}

		if !accepted {
			// No damping yields a decrease: at the minimum to working
			// precision.
			converged = true
			break
		}

		slope += dSlope
		centre += dCentre
		sumSq = trialSumSq
		copy(r, trial)
		lambda = math.Max(lambda/10, 1e-12)

		small := math.Abs(dSlope) <= odrParTol*(math.Abs(slope)+odrParTol) &&
			math.Abs(dCentre) <= odrParTol*(math.Abs(centre)+odrParTol)
		if small {
			converged = true
			break
		}
	}

	intercept := centre - slope*mx

	if !converged {
		return nil, serrors.With(serrors.ErrDidNotConverge,
			"odr did not converge in %d iterations (slope %g, intercept %g)", odrMaxIterations, slope, intercept)
	}

	stdErr, err := p.slopeStdErr(slope, intercept, sumSq)
	if err != nil {
		return nil, err
	}

	return &fit{
		slope:       slope,
		intercept:   intercept,
		slopeStdErr: stdErr,
		iterations:  iter,
	}, nil
}

// slopeStdErr returns sqrt(res_var·cov[0][0]) where cov is the parameter
// covariance of the full problem evaluated at the corrected inputs x* and
// res_var = S/(n-2).
func (p *odrProblem) slopeStdErr(slope, intercept, sumSq float64) (float64, error) {
	w := p.weight(slope)
	den := p.we*slope*slope + p.wd

	var sxx, sx float64
	for i := range p.x {
		e := p.y[i] - slope*p.x[i] - intercept
		xs := p.x[i] + p.we*slope*e/den
		sxx += w * xs * xs
		sx += w * xs
	}
	info := mat.NewDense(2, 2, []float64{
		sxx, sx,
		sx, w * float64(len(p.x)),
	})

	var cov mat.Dense
	if err := cov.Inverse(info); err != nil {
		return 0, serrors.Wrap(serrors.ErrInvalidArgument, err, "odr parameter covariance is singular")
	}

	resVar := sumSq / float64(len(p.x)-2)
	return math.Sqrt(resVar * cov.At(0, 0)), nil
}
