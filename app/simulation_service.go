package app

import (
	"context"
	"log"
	"time"

	"episbc/domain/epi"
	"episbc/internal/generative"
	"episbc/internal/metrics"
	"episbc/internal/prior"
	"episbc/internal/randx"
	"episbc/internal/sir"
)

// SimulationService exposes the generative model directly: batch sampling
// from the joint prior and replay of explicit parameter vectors. Stateless;
// every request carries its own seed and simulation context.
type SimulationService struct {
	metrics *metrics.Metrics
}

// BatchRequest defines one batch generation run
type BatchRequest struct {
	Seed       uint64  `json:"seed"`
	Size       int     `json:"size"`
	Population float64 `json:"population"`
	Horizon    int     `json:"horizon"`
	Epsilon    float64 `json:"epsilon"`
	Workers    int     `json:"workers"`
}

// BatchResult bundles the generated batch with its trajectory envelope
type BatchResult struct {
	Batch     *epi.Batch           `json:"batch"`
	Envelope  *generative.Envelope `json:"envelope"`
	RuntimeMs int64                `json:"runtime_ms"`
}

// ReplayRequest defines one conditional simulation run
type ReplayRequest struct {
	Seed       uint64              `json:"seed"`
	Stream     uint64              `json:"stream"`
	Params     epi.ParameterVector `json:"parameters"`
	Population float64             `json:"population"`
	Horizon    int                 `json:"horizon"`
	Epsilon    float64             `json:"epsilon"`
}

// ReplayResult carries the replayed trajectory
type ReplayResult struct {
	Cases     epi.Trajectory `json:"cases"`
	RuntimeMs int64          `json:"runtime_ms"`
}

// NewSimulationService creates a simulation service
func NewSimulationService(m *metrics.Metrics) *SimulationService {
	return &SimulationService{metrics: m}
}

// GenerateBatch samples a batch from the joint prior
func (s *SimulationService) GenerateBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	startTime := time.Now()

	model, err := s.buildModel(req.Seed, req.Population, req.Horizon, req.Epsilon, req.Workers)
	if err != nil {
		return nil, err
	}
	batch, err := model.Sample(ctx, req.Size)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("simulation", "generate")
		}
		return nil, err
	}

	envelope, err := generative.ComputeEnvelope(batch, nil)
	if err != nil {
		return nil, err
	}

	runtimeMs := time.Since(startTime).Milliseconds()
	if s.metrics != nil {
		s.metrics.RecordBatch(req.Size, time.Since(startTime).Seconds())
	}
	log.Printf("[SimulationService] Generated batch of %d in %dms", req.Size, runtimeMs)

	return &BatchResult{Batch: batch, Envelope: envelope, RuntimeMs: runtimeMs}, nil
}

// Replay simulates one explicit parameter vector on a dedicated stream
func (s *SimulationService) Replay(ctx context.Context, req ReplayRequest) (*ReplayResult, error) {
	startTime := time.Now()

	model, err := s.buildModel(req.Seed, req.Population, req.Horizon, req.Epsilon, 1)
	if err != nil {
		return nil, err
	}
	cases, err := model.Replay(ctx, req.Params, req.Stream)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("simulation", "replay")
		}
		return nil, err
	}

	return &ReplayResult{Cases: cases, RuntimeMs: time.Since(startTime).Milliseconds()}, nil
}

func (s *SimulationService) buildModel(seed uint64, population float64, horizon int, epsilon float64, workers int) (*generative.Model, error) {
	simCtx, err := epi.NewSimContext(population, horizon, epsilon)
	if err != nil {
		return nil, err
	}
	simulator, err := sir.NewSimulator(simCtx)
	if err != nil {
		return nil, err
	}
	return generative.NewModel(prior.NewSampler(), simulator, randx.New(seed), workers), nil
}
