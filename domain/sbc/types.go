package sbc

import (
	"episbc/domain/core"
)

// ============================================================================
// RANK STATISTICS
// ============================================================================

// RankMatrix holds the simulation-based calibration rank statistics:
// one row per scenario, one column per parameter, each entry the count of
// posterior samples strictly below the scenario's true value.
// INVARIANTS:
// - Every entry lies in [0, NumSamples]
// - Under a well-calibrated approximator, each column is uniform on
//   {0, ..., NumSamples} across scenarios
type RankMatrix struct {
	NumScenarios   int      `json:"num_scenarios"`
	NumSamples     int      `json:"num_samples"` // rank range upper bound
	ParameterNames []string `json:"parameter_names"`
	Ranks          [][]int  `json:"ranks"` // NumScenarios x len(ParameterNames)
}

// NumParameters returns the parameter dimensionality
func (rm *RankMatrix) NumParameters() int {
	return len(rm.ParameterNames)
}

// Column returns the ranks of parameter k across all scenarios
func (rm *RankMatrix) Column(k int) []int {
	col := make([]int, rm.NumScenarios)
	for i := 0; i < rm.NumScenarios; i++ {
		col[i] = rm.Ranks[i][k]
	}
	return col
}

// ============================================================================
// CALIBRATION HISTOGRAM
// ============================================================================

// Histogram partitions the rank range {0, ..., NumSamples} into equal-width
// bins per parameter. Bin edges and counts are exactly reproducible from
// (NumScenarios, NumSamples, NumBins).
type Histogram struct {
	NumBins    int       `json:"num_bins"`
	BinWidth   float64   `json:"bin_width"` // (NumSamples+1)/NumBins in rank units
	Edges      []float64 `json:"edges"`     // NumBins+1 edges, last edge inclusive
	Counts     [][]int   `json:"counts"`    // K x NumBins
	Expected   float64   `json:"expected"`  // NumScenarios / NumBins under uniformity
	NumSamples int       `json:"num_samples"`
}

// ============================================================================
// ECDF CALIBRATION CURVES
// ============================================================================

// CalibrationCurve is one parameter's empirical CDF of normalized ranks,
// evaluated on the shared grid, with its confidence band. In difference
// mode values and band have the identity line subtracted.
type CalibrationCurve struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Lower  []float64 `json:"lower"`
	Upper  []float64 `json:"upper"`
}

// CalibrationCurveSet bundles the per-parameter curves with the grid and
// band construction they share.
type CalibrationCurveSet struct {
	Grid         []float64          `json:"grid"` // evaluation points in [0, 1]
	Difference   bool               `json:"difference"`
	Confidence   float64            `json:"confidence"`
	Simultaneous bool               `json:"simultaneous"`
	Curves       []CalibrationCurve `json:"curves"`
}

// Curve construction defaults.
const (
	DefaultGridPoints = 101
	DefaultConfidence = 0.95
	DefaultNumBins    = 10
)

// CurveOptions selects how calibration curves are evaluated. Zero values
// pick the defaults above.
type CurveOptions struct {
	Difference   bool    `json:"difference"`
	Points       int     `json:"points"`
	Confidence   float64 `json:"confidence"`
	Simultaneous bool    `json:"simultaneous"`
}

// WithDefaults fills unset option fields
func (o CurveOptions) WithDefaults() CurveOptions {
	if o.Points <= 1 {
		o.Points = DefaultGridPoints
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = DefaultConfidence
	}
	return o
}

// ============================================================================
// RECOVERY METRICS
// ============================================================================

// PointEstimator selects the per-scenario posterior point estimate.
type PointEstimator string

const (
	EstimatorMean   PointEstimator = "mean"
	EstimatorMedian PointEstimator = "median"
)

// ParameterRecovery summarizes how well one parameter is recovered across
// scenarios.
type ParameterRecovery struct {
	Name        string  `json:"name"`
	RMSE        float64 `json:"rmse"`
	NRMSE       float64 `json:"nrmse"`        // RMSE / range of ground truths
	Bias        float64 `json:"bias"`         // mean(estimate - truth)
	MeanZScore  float64 `json:"mean_z_score"` // mean((estimate - truth) / posterior sd)
	Contraction float64 `json:"contraction"`  // mean(1 - posterior var / prior var)
	TruthRange  float64 `json:"truth_range"`
	PriorVar    float64 `json:"prior_var"` // sample variance of ground truths
}

// RecoverySet holds recovery metrics for every parameter under one
// point-estimate convention.
type RecoverySet struct {
	Estimator PointEstimator      `json:"estimator"`
	Metrics   []ParameterRecovery `json:"metrics"`
}

// ============================================================================
// UNIFORMITY CHECK
// ============================================================================

// ParameterUniformity is the chi-square goodness-of-fit of one parameter's
// rank histogram against the uniform null. Descriptive; no rejection policy
// is applied here.
type ParameterUniformity struct {
	Name             string  `json:"name"`
	ChiSquare        float64 `json:"chi_square"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
}

// UniformitySet holds the per-parameter uniformity checks.
type UniformitySet struct {
	NumBins int                   `json:"num_bins"`
	Checks  []ParameterUniformity `json:"checks"`
}

// ============================================================================
// STUDY ARTIFACTS
// ============================================================================

// StudyManifest is the truth source for reproducing a study: every knob
// that influenced the run plus a fingerprint over all of them.
type StudyManifest struct {
	StudyID     core.StudyID     `json:"study_id"`
	Seed        uint64           `json:"seed"`
	Scenarios   int              `json:"scenarios"`
	Draws       int              `json:"draws"` // posterior samples per scenario
	Population  float64          `json:"population"`
	Horizon     int              `json:"horizon"`
	Epsilon     float64          `json:"epsilon"`
	NumBins     int              `json:"num_bins"`
	GridPoints  int              `json:"grid_points"`
	Confidence  float64          `json:"confidence"`
	Estimator   PointEstimator   `json:"estimator"`
	Fingerprint core.Fingerprint `json:"fingerprint"`
	CodeVersion string           `json:"code_version"`
	CreatedAt   core.Timestamp   `json:"created_at"`
}

// NewStudyManifest computes the fingerprint from the manifest fields
func NewStudyManifest(seed uint64, scenarios, draws int, population float64, horizon int, epsilon float64, numBins, gridPoints int, confidence float64, estimator PointEstimator, codeVersion string) StudyManifest {
	fingerprint := core.ComputeFingerprint(seed, map[string]interface{}{
		"scenarios":   scenarios,
		"draws":       draws,
		"population":  population,
		"horizon":     horizon,
		"epsilon":     epsilon,
		"num_bins":    numBins,
		"grid_points": gridPoints,
		"confidence":  confidence,
		"estimator":   string(estimator),
		"code":        codeVersion,
	})
	return StudyManifest{
		StudyID:     core.StudyID(core.NewID()),
		Seed:        seed,
		Scenarios:   scenarios,
		Draws:       draws,
		Population:  population,
		Horizon:     horizon,
		Epsilon:     epsilon,
		NumBins:     numBins,
		GridPoints:  gridPoints,
		Confidence:  confidence,
		Estimator:   estimator,
		Fingerprint: fingerprint,
		CodeVersion: codeVersion,
		CreatedAt:   core.Now(),
	}
}

// StudyReport aggregates every diagnostic computed for one SBC study.
type StudyReport struct {
	Manifest         StudyManifest        `json:"manifest"`
	Ranks            *RankMatrix          `json:"ranks"`
	Histogram        *Histogram           `json:"histogram"`
	Curves           *CalibrationCurveSet `json:"curves"`
	DifferenceCurves *CalibrationCurveSet `json:"difference_curves"`
	Recovery         *RecoverySet         `json:"recovery"`
	Uniformity       *UniformitySet       `json:"uniformity"`
	RuntimeMs        int64                `json:"runtime_ms"`
}
