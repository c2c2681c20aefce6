package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, status int, code, message string) {
	RespondWithJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// RespondWithServiceError maps a service error onto its HTTP status. Store
// failures are logged in full and reported to the client as failMsg only.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Code:   CodeValidation,
			Fields: ve.Fields,
		})
	case errors.Is(err, ErrNotFound):
		RespondWithError(w, http.StatusNotFound, CodeNotFound, "Submission not found")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		RespondWithError(w, http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	default:
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(failMsg)
		RespondWithError(w, http.StatusInternalServerError, CodeStore, failMsg)
	}
}
