package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"episbc/domain/core"
	apperrors "episbc/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: shape and payload
// problems are client errors, domain and sufficiency violations are
// unprocessable, missing resources are 404, everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apperrors.GetCode(err)

	switch {
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
		code = apperrors.CodeNotFound
	case core.IsShapeMismatchError(err):
		status = http.StatusBadRequest
		code = apperrors.CodeShapeMismatch
	case core.IsDomainError(err):
		status = http.StatusUnprocessableEntity
		code = apperrors.CodeDomainInvalid
	case core.IsInsufficientDataError(err):
		status = http.StatusUnprocessableEntity
		code = apperrors.CodeInsufficientData
	case code == apperrors.CodeInvalidInput || code == apperrors.CodeConfigInvalid:
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.New(apperrors.CodeInvalidInput, "malformed JSON body: "+err.Error())
	}
	return nil
}
