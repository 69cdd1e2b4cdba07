package generative

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"episbc/domain/core"
	"episbc/domain/epi"
)

// DefaultEnvelopeProbs are the quantile levels reported when the caller
// does not choose their own.
var DefaultEnvelopeProbs = []float64{0.05, 0.25, 0.5, 0.75, 0.95}

// Envelope summarizes a batch of trajectories per time step: a quantile
// fan plus the mean, the prior-predictive (or posterior-predictive) view
// of the generative output.
type Envelope struct {
	Probs     []float64   `json:"probs"`
	Quantiles [][]float64 `json:"quantiles"` // len(Probs) x horizon
	Mean      []float64   `json:"mean"`
}

// ComputeEnvelope builds the quantile envelope across a batch. Every
// trajectory must have the same length.
func ComputeEnvelope(batch *epi.Batch, probs []float64) (*Envelope, error) {
	if batch == nil || batch.Size == 0 {
		return nil, core.NewInsufficientDataError("empty batch for envelope")
	}
	if len(probs) == 0 {
		probs = DefaultEnvelopeProbs
	}
	for _, p := range probs {
		if p <= 0 || p >= 1 {
			return nil, core.NewDomainError("envelope prob", fmt.Sprintf("must lie in (0, 1), got %v", p))
		}
	}

	horizon := len(batch.Cases[0])
	for _, row := range batch.Cases {
		if len(row) != horizon {
			return nil, core.NewShapeMismatchError("trajectory length", horizon, len(row))
		}
	}

	env := &Envelope{
		Probs:     probs,
		Quantiles: make([][]float64, len(probs)),
		Mean:      make([]float64, horizon),
	}
	for j := range probs {
		env.Quantiles[j] = make([]float64, horizon)
	}

	column := make([]float64, batch.Size)
	for t := 0; t < horizon; t++ {
		for i := 0; i < batch.Size; i++ {
			column[i] = float64(batch.Cases[i][t])
		}
		data := stats.Float64Data(column)

		mean, err := stats.Mean(data)
		if err != nil {
			return nil, err
		}
		env.Mean[t] = mean

		// nearest-rank quantiles stay defined for any batch size
		for j, p := range probs {
			q, err := stats.PercentileNearestRank(data, p*100)
			if err != nil {
				return nil, err
			}
			env.Quantiles[j][t] = q
		}
	}
	return env, nil
}
