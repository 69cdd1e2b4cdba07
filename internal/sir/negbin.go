package sir

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NegBin is the mean/dispersion form of the negative binomial count
// distribution. Given mean m and dispersion r, the variance is m + m^2/r,
// the standard success count is r, and the failure probability is
// (variance - m) / variance = m / (r + m).
// INVARIANTS:
// - Mean > 0 (callers add the numerical floor before constructing)
// - Dispersion > 0 (validated upstream; zero would divide by zero)
type NegBin struct {
	Mean       float64
	Dispersion float64
}

// Variance returns mean + mean^2/dispersion
func (nb NegBin) Variance() float64 {
	return nb.Mean + nb.Mean*nb.Mean/nb.Dispersion
}

// FailureProb returns (variance - mean) / variance
func (nb NegBin) FailureProb() float64 {
	v := nb.Variance()
	return (v - nb.Mean) / v
}

// SuccessProb returns 1 - FailureProb
func (nb NegBin) SuccessProb() float64 {
	return 1 - nb.FailureProb()
}

// ImpliedMean recovers the mean from the (successes, probability)
// parameterization, r * pFail / (1 - pFail)
func (nb NegBin) ImpliedMean() float64 {
	pFail := nb.FailureProb()
	return nb.Dispersion * pFail / (1 - pFail)
}

// Rand draws one count as a gamma-poisson mixture: the gamma rate
// (1 - pFail) / pFail equals dispersion / mean, so the mixture mean is the
// negative binomial mean.
func (nb NegBin) Rand(rng *rand.Rand) int64 {
	pFail := nb.FailureProb()
	g := distuv.Gamma{Alpha: nb.Dispersion, Beta: (1 - pFail) / pFail, Src: rng}
	lam := g.Rand()
	if lam <= 0 {
		// gamma draw underflowed to zero; the poisson mixture degenerates
		return 0
	}
	po := distuv.Poisson{Lambda: lam, Src: rng}
	return int64(po.Rand())
}
