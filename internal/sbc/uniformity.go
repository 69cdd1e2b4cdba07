package sbc

import (
	"gonum.org/v1/gonum/stat/distuv"

	"episbc/domain/core"
	"episbc/domain/sbc"
)

// Uniformity runs a chi-square goodness-of-fit test per parameter against
// the uniform-rank null: observed bin counts versus NumScenarios/NumBins.
// The result is descriptive; callers decide what p-value they care about.
func (e *Engine) Uniformity(ranks *sbc.RankMatrix, numBins int) (*sbc.UniformitySet, error) {
	hist, err := e.Histogram(ranks, numBins)
	if err != nil {
		return nil, err
	}
	if numBins < 2 {
		return nil, core.NewDomainError("num_bins", "must be >= 2 for a chi-square check")
	}

	null := distuv.ChiSquared{K: float64(numBins - 1)}
	checks := make([]sbc.ParameterUniformity, ranks.NumParameters())
	for k := range checks {
		chi := 0.0
		for _, observed := range hist.Counts[k] {
			dev := float64(observed) - hist.Expected
			chi += dev * dev / hist.Expected
		}
		checks[k] = sbc.ParameterUniformity{
			Name:             ranks.ParameterNames[k],
			ChiSquare:        chi,
			DegreesOfFreedom: numBins - 1,
			PValue:           1 - null.CDF(chi),
		}
	}

	return &sbc.UniformitySet{NumBins: numBins, Checks: checks}, nil
}
