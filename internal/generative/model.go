package generative

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"episbc/domain/epi"
	"episbc/ports"
)

// Stream labels partition the root seed's stream space between stages.
const (
	scenarioStream = "scenario"
	replayStream   = "replay"
)

// DefaultWorkers bounds concurrent record generation when the caller does
// not say otherwise.
const DefaultWorkers = 8

// Model composes the prior sampler and the trajectory simulator into a
// batched joint sampler. Record i always draws from stream (scenario, i),
// so a batch is reproducible for any worker count.
type Model struct {
	prior   ports.PriorSampler
	sim     ports.TrajectorySimulator
	rng     ports.RNGPort
	workers int64
}

// NewModel creates a generative model. workers <= 0 selects DefaultWorkers.
func NewModel(prior ports.PriorSampler, sim ports.TrajectorySimulator, rng ports.RNGPort, workers int) *Model {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Model{
		prior:   prior,
		sim:     sim,
		rng:     rng,
		workers: int64(workers),
	}
}

// Sample generates batchSize independent records in batch-first layout.
// Generation is bounded by the worker semaphore and stops early when the
// context is cancelled.
func (m *Model) Sample(ctx context.Context, batchSize int) (*epi.Batch, error) {
	batch, err := epi.NewBatch(batchSize, m.rng.Root())
	if err != nil {
		return nil, err
	}

	started := time.Now()
	sem := semaphore.NewWeighted(m.workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < batchSize; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)

			record, err := m.generate(uint64(i))
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			// rows are disjoint, no lock needed
			batch.Set(i, record)
		}(i)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	log.Printf("[GenerativeModel] Sampled %d records in %.2fms", batchSize, float64(time.Since(started).Nanoseconds())/1e6)
	return batch, nil
}

// generate produces record i from its dedicated stream
func (m *Model) generate(index uint64) (epi.SimulationRecord, error) {
	rng := m.rng.Stream(scenarioStream, index)
	params := m.prior.SampleParameters(rng)
	cases, err := m.sim.Simulate(params, rng)
	if err != nil {
		return epi.SimulationRecord{}, err
	}
	return epi.SimulationRecord{Params: params, Cases: cases}, nil
}

// Replay simulates caller-supplied parameters on the replay stream with the
// given index. Used for posterior-predictive re-simulation.
func (m *Model) Replay(ctx context.Context, params epi.ParameterVector, stream uint64) (epi.Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rng := m.rng.Stream(replayStream, stream)
	return m.sim.Simulate(params, rng)
}

// Ensure Model implements Generator
var _ ports.Generator = (*Model)(nil)
