package ports

import (
	"episbc/domain/sbc"
)

// Calibrator computes simulation-based calibration diagnostics from
// externally supplied posterior samples. Sample arrays are
// scenarios x draws x parameters; ground truth is scenarios x parameters,
// both in canonical parameter order. Shape disagreement or empty inputs
// fail with the core error taxonomy, never with silent NaN.
type Calibrator interface {
	// Ranks counts, per scenario and parameter, the posterior samples
	// strictly below the true value
	Ranks(samples [][][]float64, truths [][]float64) (*sbc.RankMatrix, error)

	// Histogram bins a rank matrix into numBins equal-width bins
	Histogram(ranks *sbc.RankMatrix, numBins int) (*sbc.Histogram, error)

	// Curve builds per-parameter ECDF calibration curves with confidence
	// bands, raw or difference mode per the options
	Curve(samples [][][]float64, truths [][]float64, opts sbc.CurveOptions) (*sbc.CalibrationCurveSet, error)

	// Recovery computes point-estimate recovery and posterior contraction
	Recovery(samples [][][]float64, truths [][]float64, estimator sbc.PointEstimator) (*sbc.RecoverySet, error)

	// Uniformity runs the chi-square check of rank uniformity per parameter
	Uniformity(ranks *sbc.RankMatrix, numBins int) (*sbc.UniformitySet, error)
}
