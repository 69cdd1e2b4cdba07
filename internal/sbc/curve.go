package sbc

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"episbc/domain/core"
	"episbc/domain/sbc"
)

// Curve ranks the inputs and evaluates per-parameter calibration curves.
func (e *Engine) Curve(samples [][][]float64, truths [][]float64, opts sbc.CurveOptions) (*sbc.CalibrationCurveSet, error) {
	ranks, err := e.Ranks(samples, truths)
	if err != nil {
		return nil, err
	}
	return e.CurveFromRanks(ranks, opts)
}

// CurveFromRanks builds the ECDF of normalized ranks on a fixed uniform grid
// over [0, 1], together with a confidence band derived from the exact
// Binomial(scenarios, x) distribution of ECDF counts under the uniform null.
// In difference mode the identity line is subtracted from values and band so
// a perfectly calibrated curve hugs zero.
func (e *Engine) CurveFromRanks(ranks *sbc.RankMatrix, opts sbc.CurveOptions) (*sbc.CalibrationCurveSet, error) {
	if ranks == nil || ranks.NumScenarios == 0 {
		return nil, core.NewInsufficientDataError("empty rank matrix")
	}
	if ranks.NumSamples < 1 {
		return nil, core.NewDomainError("num_samples", "must be >= 1")
	}
	opts = opts.WithDefaults()

	scenarios := ranks.NumScenarios
	params := ranks.NumParameters()

	grid := make([]float64, opts.Points)
	for j := range grid {
		grid[j] = float64(j) / float64(opts.Points-1)
	}

	// Pointwise coverage level. The simultaneous band tightens the per-point
	// level so that all grid points jointly hold at the requested confidence.
	alpha := 1 - opts.Confidence
	if opts.Simultaneous {
		alpha = 1 - math.Pow(opts.Confidence, 1/float64(opts.Points))
	}

	lower := make([]float64, opts.Points)
	upper := make([]float64, opts.Points)
	for j, x := range grid {
		null := distuv.Binomial{N: float64(scenarios), P: x}
		lower[j] = float64(binomialQuantile(null, scenarios, alpha/2)) / float64(scenarios)
		upper[j] = float64(binomialQuantile(null, scenarios, 1-alpha/2)) / float64(scenarios)
	}

	curves := make([]sbc.CalibrationCurve, params)
	for k := 0; k < params; k++ {
		normalized := make([]float64, scenarios)
		for m := 0; m < scenarios; m++ {
			normalized[m] = float64(ranks.Ranks[m][k]) / float64(ranks.NumSamples)
		}

		values := make([]float64, opts.Points)
		for j, x := range grid {
			count := 0
			for _, r := range normalized {
				if r <= x {
					count++
				}
			}
			values[j] = float64(count) / float64(scenarios)
		}

		lo := make([]float64, opts.Points)
		hi := make([]float64, opts.Points)
		copy(lo, lower)
		copy(hi, upper)
		if opts.Difference {
			for j := range values {
				values[j] -= grid[j]
				lo[j] -= grid[j]
				hi[j] -= grid[j]
			}
		}

		curves[k] = sbc.CalibrationCurve{
			Name:   ranks.ParameterNames[k],
			Values: values,
			Lower:  lo,
			Upper:  hi,
		}
	}

	return &sbc.CalibrationCurveSet{
		Grid:         grid,
		Difference:   opts.Difference,
		Confidence:   opts.Confidence,
		Simultaneous: opts.Simultaneous,
		Curves:       curves,
	}, nil
}

// binomialQuantile inverts the binomial CDF by search: the smallest count k
// in [0, n] with CDF(k) >= p. distuv.Binomial exposes CDF but no Quantile.
func binomialQuantile(b distuv.Binomial, n int, p float64) int {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	return sort.Search(n+1, func(k int) bool {
		return b.CDF(float64(k)) >= p
	})
}
