// Package selfcheck provides the prior-resampling posterior source. It
// ignores the observed trajectory and redraws from the prior, which makes
// the resulting rank statistics uniform by construction. That property
// turns it into the calibration engine's reference fixture and a null
// baseline for studies.
package selfcheck

import (
	"context"

	"episbc/domain/core"
	"episbc/internal/prior"
	"episbc/ports"
)

const streamLabel = "posterior"

// Sampler draws posterior samples by resampling the prior. Each scenario
// index owns a dedicated random stream, so results do not depend on the
// order scenarios are visited.
type Sampler struct {
	prior *prior.Sampler
	rng   ports.RNGPort
}

// NewSampler creates a prior-resampling posterior source
func NewSampler(priorSampler *prior.Sampler, rng ports.RNGPort) *Sampler {
	return &Sampler{prior: priorSampler, rng: rng}
}

// Factory returns a constructor binding the self-check source to a study's
// stream factory. It satisfies the study service's posterior factory.
func Factory() func(ports.RNGPort) ports.PosteriorSampler {
	return func(rng ports.RNGPort) ports.PosteriorSampler {
		return NewSampler(prior.NewSampler(), rng)
	}
}

// SamplePosterior draws fresh prior samples for the scenario
func (s *Sampler) SamplePosterior(ctx context.Context, scenario ports.Scenario, draws int) ([][]float64, error) {
	if draws < 1 {
		return nil, core.NewInsufficientDataError("zero posterior samples")
	}
	if scenario.Index < 0 {
		return nil, core.NewDomainError("scenario_index", "must be >= 0")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream := s.rng.Stream(streamLabel, uint64(scenario.Index))
	samples := make([][]float64, draws)
	for i := range samples {
		samples[i] = s.prior.SampleParameters(stream).Slice()
	}
	return samples, nil
}

// Ensure Sampler implements PosteriorSampler
var _ ports.PosteriorSampler = (*Sampler)(nil)
