package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/moviarr/internal/models"
	"github.com/sirupsen/logrus"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// writeError maps the core error taxonomy to HTTP status codes:
// NotFoundError -> 404, ValidationError -> 400, ProviderError -> 502,
// anything else (including StorageError) -> 500.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var notFound *models.NotFoundError
	var validation *models.ValidationError
	var provider *models.ProviderError

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: notFound.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: validation.Error()})
	case errors.As(err, &provider):
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: provider.Error()})
	default:
		logger.WithError(err).Error("Internal error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}
