package ports

import (
	"context"

	"episbc/domain/epi"
)

// Scenario is what a posterior source may condition on: the observed
// trajectory of one simulated dataset plus its position in the study.
// The ground truth is deliberately absent.
type Scenario struct {
	Index int            `json:"index"`
	Cases epi.Trajectory `json:"cases"`
}

// PosteriorSampler is the external approximator boundary: given one
// scenario, produce draws approximate-posterior samples in canonical
// parameter order (draws x NumParameters). Implementations range from the
// prior-resampling self-check baseline to a real fitted approximator.
type PosteriorSampler interface {
	SamplePosterior(ctx context.Context, scenario Scenario, draws int) ([][]float64, error)
}
