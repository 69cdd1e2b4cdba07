package ports

import (
	"context"
	"math/rand/v2"

	"episbc/domain/epi"
)

// PriorSampler draws parameter vectors from the joint prior. Draws are
// independent and identically distributed; the caller supplies the stream.
type PriorSampler interface {
	SampleParameters(rng *rand.Rand) epi.ParameterVector
}

// TrajectorySimulator turns one parameter vector into one observed
// trajectory. Pure except for draws from the supplied stream.
type TrajectorySimulator interface {
	Simulate(params epi.ParameterVector, rng *rand.Rand) (epi.Trajectory, error)
}

// Generator is the joint sampler over (parameters, trajectory) pairs.
type Generator interface {
	// Sample returns batchSize independent records in batch-first layout
	Sample(ctx context.Context, batchSize int) (*epi.Batch, error)

	// Replay simulates a caller-supplied parameter vector on the stream
	// with the given index (posterior-predictive re-simulation)
	Replay(ctx context.Context, params epi.ParameterVector, stream uint64) (epi.Trajectory, error)
}
