package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"episbc/domain/core"
	"episbc/domain/epi"
	"episbc/domain/sbc"
	"episbc/internal/generative"
	"episbc/internal/metrics"
	"episbc/internal/prior"
	"episbc/internal/randx"
	engine "episbc/internal/sbc"
	"episbc/internal/sir"
	"episbc/ports"
)

// Version identifies the pipeline build recorded in study manifests.
const Version = "0.1.0"

// Study completion statuses recorded in metrics.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// PosteriorFactory builds the posterior source for one study run, bound to
// that run's random stream factory.
type PosteriorFactory func(rng ports.RNGPort) ports.PosteriorSampler

// StudyService orchestrates one full simulation-based calibration study:
// generate scenarios, query the posterior source per scenario, reduce the
// arrays to calibration diagnostics, then persist and export as configured.
type StudyService struct {
	posterior PosteriorFactory
	store     ports.StudyStore
	writer    ports.ReportWriter
	metrics   *metrics.Metrics
}

// StudyRequest defines the inputs for a deterministic calibration study
type StudyRequest struct {
	Seed         uint64             `json:"seed"`
	Scenarios    int                `json:"scenarios"`
	Draws        int                `json:"draws"`
	Population   float64            `json:"population"`
	Horizon      int                `json:"horizon"`
	Epsilon      float64            `json:"epsilon"`
	NumBins      int                `json:"num_bins"`
	GridPoints   int                `json:"grid_points"`
	Confidence   float64            `json:"confidence"`
	Simultaneous bool               `json:"simultaneous"`
	Estimator    sbc.PointEstimator `json:"estimator"`
	Workers      int                `json:"workers"`
	ReportPath   string             `json:"report_path,omitempty"`
	Save         bool               `json:"save"`
}

// StudyResult contains the complete output of a study run
type StudyResult struct {
	StudyID   core.StudyID     `json:"study_id"`
	Report    *sbc.StudyReport `json:"report"`
	RuntimeMs int64            `json:"runtime_ms"`
	Success   bool             `json:"success"`
}

// NewStudyService creates a study service. The posterior factory binds the
// posterior source to each study's seed; store and writer may be nil when
// persistence or export is not configured.
func NewStudyService(posterior PosteriorFactory, store ports.StudyStore, writer ports.ReportWriter, m *metrics.Metrics) *StudyService {
	return &StudyService{
		posterior: posterior,
		store:     store,
		writer:    writer,
		metrics:   m,
	}
}

// Run executes one calibration study end to end
func (s *StudyService) Run(ctx context.Context, req StudyRequest) (*StudyResult, error) {
	startTime := time.Now()
	req = req.withDefaults()

	if req.Scenarios < 1 {
		return nil, s.fail(startTime, "request", core.NewInsufficientDataError("zero scenarios"))
	}
	if req.Draws < 1 {
		return nil, s.fail(startTime, "request", core.NewInsufficientDataError("zero posterior samples"))
	}
	if s.posterior == nil {
		return nil, s.fail(startTime, "request", core.NewDomainError("posterior", "no posterior source configured"))
	}

	simCtx, err := epi.NewSimContext(req.Population, req.Horizon, req.Epsilon)
	if err != nil {
		return nil, s.fail(startTime, "request", err)
	}
	simulator, err := sir.NewSimulator(simCtx)
	if err != nil {
		return nil, s.fail(startTime, "request", err)
	}

	factory := randx.New(req.Seed)
	model := generative.NewModel(prior.NewSampler(), simulator, factory, req.Workers)

	// Phase 1: forward-simulate the scenario set.
	genStart := time.Now()
	batch, err := model.Sample(ctx, req.Scenarios)
	if err != nil {
		return nil, s.fail(startTime, "generate", err)
	}
	if s.metrics != nil {
		s.metrics.RecordBatch(req.Scenarios, time.Since(genStart).Seconds())
	}

	// Phase 2: posterior draws per scenario.
	posterior := s.posterior(factory)
	truths := batch.ParameterMatrix()
	samples := make([][][]float64, req.Scenarios)
	for m := 0; m < req.Scenarios; m++ {
		scenario := ports.Scenario{Index: m, Cases: batch.Cases[m]}
		draws, err := posterior.SamplePosterior(ctx, scenario, req.Draws)
		if err != nil {
			return nil, s.fail(startTime, "posterior", fmt.Errorf("posterior sampling for scenario %d failed: %w", m, err))
		}
		samples[m] = draws
	}

	// Phase 3: calibration diagnostics.
	calibrator := engine.NewEngine(epi.ParameterNames())
	ranks, err := calibrator.Ranks(samples, truths)
	if err != nil {
		return nil, s.fail(startTime, "calibrate", err)
	}
	histogram, err := calibrator.Histogram(ranks, req.NumBins)
	if err != nil {
		return nil, s.fail(startTime, "calibrate", err)
	}
	curveOpts := sbc.CurveOptions{
		Points:       req.GridPoints,
		Confidence:   req.Confidence,
		Simultaneous: req.Simultaneous,
	}
	curves, err := calibrator.CurveFromRanks(ranks, curveOpts)
	if err != nil {
		return nil, s.fail(startTime, "calibrate", err)
	}
	curveOpts.Difference = true
	differences, err := calibrator.CurveFromRanks(ranks, curveOpts)
	if err != nil {
		return nil, s.fail(startTime, "calibrate", err)
	}
	recovery, err := calibrator.Recovery(samples, truths, req.Estimator)
	if err != nil {
		return nil, s.fail(startTime, "calibrate", err)
	}
	uniformity, err := calibrator.Uniformity(ranks, req.NumBins)
	if err != nil {
		return nil, s.fail(startTime, "calibrate", err)
	}

	manifest := sbc.NewStudyManifest(req.Seed, req.Scenarios, req.Draws,
		simCtx.Population, simCtx.Horizon, simCtx.Epsilon,
		req.NumBins, req.GridPoints, req.Confidence, req.Estimator, Version)

	report := &sbc.StudyReport{
		Manifest:         manifest,
		Ranks:            ranks,
		Histogram:        histogram,
		Curves:           curves,
		DifferenceCurves: differences,
		Recovery:         recovery,
		Uniformity:       uniformity,
		RuntimeMs:        time.Since(startTime).Milliseconds(),
	}

	// Phase 4: persistence and export.
	if req.Save {
		if s.store == nil {
			return nil, s.fail(startTime, "store", core.NewDomainError("save", "no study store configured"))
		}
		if err := s.store.SaveStudy(ctx, report); err != nil {
			return nil, s.fail(startTime, "store", err)
		}
	}
	if req.ReportPath != "" {
		if s.writer == nil {
			return nil, s.fail(startTime, "report", core.NewDomainError("report_path", "no report writer configured"))
		}
		if err := s.writer.WriteStudy(report, req.ReportPath); err != nil {
			return nil, s.fail(startTime, "report", err)
		}
	}

	runtimeMs := time.Since(startTime).Milliseconds()
	report.RuntimeMs = runtimeMs
	if s.metrics != nil {
		s.metrics.RecordStudy(StatusCompleted, time.Since(startTime).Seconds())
	}
	log.Printf("[StudyService] Completed study %s: %d scenarios x %d draws in %dms",
		manifest.StudyID, req.Scenarios, req.Draws, runtimeMs)

	return &StudyResult{
		StudyID:   manifest.StudyID,
		Report:    report,
		RuntimeMs: runtimeMs,
		Success:   true,
	}, nil
}

// GetStudy retrieves a stored study report
func (s *StudyService) GetStudy(ctx context.Context, id core.StudyID) (*sbc.StudyReport, error) {
	if s.store == nil {
		return nil, core.NewNotFoundError("study", id.String())
	}
	return s.store.GetStudy(ctx, id)
}

// ListStudies lists stored study manifests, newest first
func (s *StudyService) ListStudies(ctx context.Context, limit int) ([]sbc.StudyManifest, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListStudies(ctx, limit)
}

// withDefaults fills unset request knobs with the documented defaults
func (r StudyRequest) withDefaults() StudyRequest {
	if r.NumBins <= 0 {
		r.NumBins = sbc.DefaultNumBins
	}
	if r.GridPoints <= 1 {
		r.GridPoints = sbc.DefaultGridPoints
	}
	if r.Confidence <= 0 || r.Confidence >= 1 {
		r.Confidence = sbc.DefaultConfidence
	}
	if r.Estimator == "" {
		r.Estimator = sbc.EstimatorMean
	}
	if r.Workers <= 0 {
		r.Workers = generative.DefaultWorkers
	}
	return r
}

func (s *StudyService) fail(start time.Time, stage string, err error) error {
	if s.metrics != nil {
		s.metrics.RecordError("study", stage)
		s.metrics.RecordStudy(StatusFailed, time.Since(start).Seconds())
	}
	log.Printf("[StudyService] Study failed during %s: %v", stage, err)
	return err
}
