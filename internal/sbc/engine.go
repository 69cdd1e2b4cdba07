package sbc

import (
	"episbc/domain/core"
	"episbc/domain/epi"
	"episbc/domain/sbc"
	"episbc/ports"
)

// Engine computes simulation-based calibration diagnostics over posterior
// sample arrays. All entrypoints are read-only reductions; the only state
// is the canonical parameter naming.
type Engine struct {
	names []string
}

// NewEngine creates a calibration engine. nil names select the canonical
// epidemic parameter order.
func NewEngine(names []string) *Engine {
	if len(names) == 0 {
		names = epi.ParameterNames()
	}
	return &Engine{names: names}
}

// ParameterNames returns the column naming in effect
func (e *Engine) ParameterNames() []string {
	return e.names
}

// validate checks the (scenarios x draws x parameters) sample array against
// the (scenarios x parameters) ground truth and returns the shared
// dimensions. Every failure mode is an explicit error; nothing downstream
// ever divides by a silent zero.
func (e *Engine) validate(samples [][][]float64, truths [][]float64) (scenarios, draws, params int, err error) {
	scenarios = len(samples)
	if scenarios == 0 {
		return 0, 0, 0, core.NewInsufficientDataError("zero scenarios")
	}
	if len(truths) != scenarios {
		return 0, 0, 0, core.NewShapeMismatchError("scenario count", scenarios, len(truths))
	}

	draws = len(samples[0])
	if draws == 0 {
		return 0, 0, 0, core.NewInsufficientDataError("zero posterior samples")
	}

	params = len(e.names)
	for m := 0; m < scenarios; m++ {
		if len(samples[m]) != draws {
			return 0, 0, 0, core.NewShapeMismatchError("posterior draws", draws, len(samples[m]))
		}
		for _, draw := range samples[m] {
			if len(draw) != params {
				return 0, 0, 0, core.NewShapeMismatchError("parameter count", params, len(draw))
			}
		}
		if len(truths[m]) != params {
			return 0, 0, 0, core.NewShapeMismatchError("ground truth parameter count", params, len(truths[m]))
		}
	}
	return scenarios, draws, params, nil
}

// Ranks counts, per scenario and parameter, the posterior samples strictly
// below the true value. Ties count as not-less, so every rank lies in
// [0, draws].
func (e *Engine) Ranks(samples [][][]float64, truths [][]float64) (*sbc.RankMatrix, error) {
	scenarios, draws, params, err := e.validate(samples, truths)
	if err != nil {
		return nil, err
	}

	ranks := make([][]int, scenarios)
	for m := 0; m < scenarios; m++ {
		row := make([]int, params)
		for k := 0; k < params; k++ {
			truth := truths[m][k]
			count := 0
			for s := 0; s < draws; s++ {
				if samples[m][s][k] < truth {
					count++
				}
			}
			row[k] = count
		}
		ranks[m] = row
	}

	return &sbc.RankMatrix{
		NumScenarios:   scenarios,
		NumSamples:     draws,
		ParameterNames: e.names,
		Ranks:          ranks,
	}, nil
}

// Histogram bins a rank matrix into numBins equal-width bins per parameter.
// The bin width is (draws+1)/numBins in rank units so the draws+1 possible
// rank values spread evenly; the last bin is closed on the right.
func (e *Engine) Histogram(ranks *sbc.RankMatrix, numBins int) (*sbc.Histogram, error) {
	if ranks == nil || ranks.NumScenarios == 0 {
		return nil, core.NewInsufficientDataError("empty rank matrix")
	}
	if numBins < 1 {
		return nil, core.NewDomainError("num_bins", "must be >= 1")
	}

	params := ranks.NumParameters()
	width := float64(ranks.NumSamples+1) / float64(numBins)

	edges := make([]float64, numBins+1)
	for j := range edges {
		edges[j] = width * float64(j)
	}

	counts := make([][]int, params)
	for k := range counts {
		counts[k] = make([]int, numBins)
	}
	for m := 0; m < ranks.NumScenarios; m++ {
		for k := 0; k < params; k++ {
			bin := int(float64(ranks.Ranks[m][k]) / width)
			if bin >= numBins {
				bin = numBins - 1
			}
			counts[k][bin]++
		}
	}

	return &sbc.Histogram{
		NumBins:    numBins,
		BinWidth:   width,
		Edges:      edges,
		Counts:     counts,
		Expected:   float64(ranks.NumScenarios) / float64(numBins),
		NumSamples: ranks.NumSamples,
	}, nil
}

// Ensure Engine implements Calibrator
var _ ports.Calibrator = (*Engine)(nil)
