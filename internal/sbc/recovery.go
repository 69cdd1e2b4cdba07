package sbc

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"episbc/domain/core"
	"episbc/domain/sbc"
)

// Recovery measures how well each parameter is recovered across scenarios:
// point-estimate error (RMSE, normalized RMSE, bias), z-scored error against
// the posterior spread, and posterior contraction relative to the spread of
// the ground truths. Needs at least two scenarios, two posterior draws per
// scenario, and non-degenerate ground truths, otherwise the metrics are
// undefined and the call fails instead of emitting NaN.
func (e *Engine) Recovery(samples [][][]float64, truths [][]float64, estimator sbc.PointEstimator) (*sbc.RecoverySet, error) {
	scenarios, draws, params, err := e.validate(samples, truths)
	if err != nil {
		return nil, err
	}
	if scenarios < 2 {
		return nil, core.NewInsufficientDataError("prior variance requires at least two scenarios")
	}
	if draws < 2 {
		return nil, core.NewInsufficientDataError("posterior variance requires at least two draws")
	}
	if estimator != sbc.EstimatorMean && estimator != sbc.EstimatorMedian {
		return nil, core.NewDomainError("estimator", fmt.Sprintf("unknown point estimator %q", estimator))
	}

	metrics := make([]sbc.ParameterRecovery, params)
	for k := 0; k < params; k++ {
		truthsK := make([]float64, scenarios)
		for m := 0; m < scenarios; m++ {
			truthsK[m] = truths[m][k]
		}

		priorVar, err := stats.SampleVariance(truthsK)
		if err != nil {
			return nil, fmt.Errorf("computing ground truth variance: %w", err)
		}
		if priorVar == 0 {
			return nil, core.NewDomainError(e.names[k], "ground truths are constant; contraction and NRMSE undefined")
		}
		truthMin, err := stats.Min(truthsK)
		if err != nil {
			return nil, fmt.Errorf("computing ground truth range: %w", err)
		}
		truthMax, err := stats.Max(truthsK)
		if err != nil {
			return nil, fmt.Errorf("computing ground truth range: %w", err)
		}
		truthRange := truthMax - truthMin

		sqErrs := make([]float64, scenarios)
		diffs := make([]float64, scenarios)
		zscores := make([]float64, scenarios)
		contractions := make([]float64, scenarios)
		for m := 0; m < scenarios; m++ {
			column := make([]float64, draws)
			for s := 0; s < draws; s++ {
				column[s] = samples[m][s][k]
			}

			var estimate float64
			if estimator == sbc.EstimatorMedian {
				estimate, err = stats.Median(column)
			} else {
				estimate, err = stats.Mean(column)
			}
			if err != nil {
				return nil, fmt.Errorf("computing point estimate: %w", err)
			}

			postVar, err := stats.SampleVariance(column)
			if err != nil {
				return nil, fmt.Errorf("computing posterior variance: %w", err)
			}
			if postVar == 0 {
				return nil, core.NewDomainError(e.names[k], fmt.Sprintf("posterior is degenerate in scenario %d; z-score undefined", m))
			}

			diff := estimate - truthsK[m]
			diffs[m] = diff
			sqErrs[m] = diff * diff
			zscores[m] = diff / math.Sqrt(postVar)
			contractions[m] = 1 - postVar/priorVar
		}

		meanSqErr, err := stats.Mean(sqErrs)
		if err != nil {
			return nil, fmt.Errorf("computing RMSE: %w", err)
		}
		bias, err := stats.Mean(diffs)
		if err != nil {
			return nil, fmt.Errorf("computing bias: %w", err)
		}
		meanZ, err := stats.Mean(zscores)
		if err != nil {
			return nil, fmt.Errorf("computing z-scores: %w", err)
		}
		contraction, err := stats.Mean(contractions)
		if err != nil {
			return nil, fmt.Errorf("computing contraction: %w", err)
		}

		rmse := math.Sqrt(meanSqErr)
		metrics[k] = sbc.ParameterRecovery{
			Name:        e.names[k],
			RMSE:        rmse,
			NRMSE:       rmse / truthRange,
			Bias:        bias,
			MeanZScore:  meanZ,
			Contraction: contraction,
			TruthRange:  truthRange,
			PriorVar:    priorVar,
		}
	}

	return &sbc.RecoverySet{Estimator: estimator, Metrics: metrics}, nil
}
