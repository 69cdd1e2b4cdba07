package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"episbc/app"
	"episbc/domain/core"
	apperrors "episbc/internal/errors"
)

// handleRunStudy runs a full calibration study
func (s *Server) handleRunStudy(w http.ResponseWriter, r *http.Request) {
	var req app.StudyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Scenarios == 0 {
		req.Scenarios = s.config.Study.Scenarios
	}
	if req.Draws == 0 {
		req.Draws = s.config.Study.Draws
	}
	if req.Population == 0 {
		req.Population = s.config.Study.Population
	}
	if req.Horizon == 0 {
		req.Horizon = s.config.Study.Horizon
	}
	if req.NumBins == 0 {
		req.NumBins = s.config.Study.NumBins
	}
	if req.GridPoints == 0 {
		req.GridPoints = s.config.Study.GridPoints
	}
	if req.Confidence == 0 {
		req.Confidence = s.config.Study.Confidence
	}
	if req.Workers == 0 {
		req.Workers = s.config.Study.Workers
	}

	result, err := s.study.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetStudy fetches one stored study report
func (s *Server) handleGetStudy(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseStudyID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidInput, err.Error()))
		return
	}

	report, err := s.study.GetStudy(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleListStudies lists stored study manifests, newest first
func (s *Server) handleListStudies(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, apperrors.New(apperrors.CodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	manifests, err := s.study.ListStudies(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"studies": manifests,
		"count":   len(manifests),
	})
}
