package httpapi

import (
	"net/http"

	"episbc/app"
)

type simulationRequest struct {
	Seed       uint64  `json:"seed"`
	BatchSize  int     `json:"batch_size"`
	Population float64 `json:"population"`
	Horizon    int     `json:"horizon"`
	Epsilon    float64 `json:"epsilon"`
	Workers    int     `json:"workers"`
}

// handleGenerateBatch samples a prior-predictive batch
func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Population == 0 {
		req.Population = s.config.Study.Population
	}
	if req.Horizon == 0 {
		req.Horizon = s.config.Study.Horizon
	}

	result, err := s.simulation.GenerateBatch(r.Context(), app.BatchRequest{
		Seed:       req.Seed,
		Size:       req.BatchSize,
		Population: req.Population,
		Horizon:    req.Horizon,
		Epsilon:    req.Epsilon,
		Workers:    req.Workers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReplay re-simulates one explicit parameter vector
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req app.ReplayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Population == 0 {
		req.Population = s.config.Study.Population
	}
	if req.Horizon == 0 {
		req.Horizon = s.config.Study.Horizon
	}

	result, err := s.simulation.Replay(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
