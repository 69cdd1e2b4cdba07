package httpapi

import (
	"net/http"

	"episbc/domain/sbc"
)

type ranksRequest struct {
	PosteriorSamples [][][]float64 `json:"posterior_samples"`
	GroundTruth      [][]float64   `json:"ground_truth"`
	NumBins          int           `json:"num_bins"`
}

type curveRequest struct {
	PosteriorSamples [][][]float64 `json:"posterior_samples"`
	GroundTruth      [][]float64   `json:"ground_truth"`
	Difference       bool          `json:"difference"`
	Points           int           `json:"points"`
	Confidence       float64       `json:"confidence"`
	Simultaneous     bool          `json:"simultaneous"`
}

type recoveryRequest struct {
	PosteriorSamples [][][]float64 `json:"posterior_samples"`
	GroundTruth      [][]float64   `json:"ground_truth"`
	Estimator        string        `json:"estimator"`
}

// handleRanks computes the rank matrix, with the histogram and uniformity
// check included when num_bins is given.
func (s *Server) handleRanks(w http.ResponseWriter, r *http.Request) {
	var req ranksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ranks, err := s.calibrator.Ranks(req.PosteriorSamples, req.GroundTruth)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]interface{}{"ranks": ranks}
	if req.NumBins > 0 {
		histogram, err := s.calibrator.Histogram(ranks, req.NumBins)
		if err != nil {
			writeError(w, err)
			return
		}
		uniformity, err := s.calibrator.Uniformity(ranks, req.NumBins)
		if err != nil {
			writeError(w, err)
			return
		}
		response["histogram"] = histogram
		response["uniformity"] = uniformity
	}
	writeJSON(w, http.StatusOK, response)
}

// handleCurve builds per-parameter calibration curves with confidence bands
func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	var req curveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	curves, err := s.calibrator.Curve(req.PosteriorSamples, req.GroundTruth, sbc.CurveOptions{
		Difference:   req.Difference,
		Points:       req.Points,
		Confidence:   req.Confidence,
		Simultaneous: req.Simultaneous,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, curves)
}

// handleRecovery computes recovery and contraction metrics
func (s *Server) handleRecovery(w http.ResponseWriter, r *http.Request) {
	var req recoveryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Estimator == "" {
		req.Estimator = string(sbc.EstimatorMean)
	}

	recovery, err := s.calibrator.Recovery(req.PosteriorSamples, req.GroundTruth, sbc.PointEstimator(req.Estimator))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recovery)
}
