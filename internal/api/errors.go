package api

import (
	"errors"
	"net/http"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/config"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the error taxonomy onto HTTP status codes: caller faults
// are 4xx, deployment faults 500, upstream faults 502.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, &apperrors.ErrValidation{}):
		status = http.StatusBadRequest
	case errors.Is(err, &apperrors.ErrNotFound{}):
		status = http.StatusNotFound
	case errors.Is(err, &apperrors.ErrConfiguration{}):
		status = http.StatusInternalServerError
	case errors.Is(err, &apperrors.ErrAuth{}),
		errors.Is(err, &apperrors.ErrProvider{}),
		errors.Is(err, &apperrors.ErrMapping{}),
		errors.Is(err, &apperrors.ErrParse{}):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		logger := config.GetLogger()
		logger.Error().Err(err).Int("status", status).Msg("Request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
