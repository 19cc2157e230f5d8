package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swiftgrasp/swiftgrasp/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// writeErrorCode writes an error JSON response with a machine-readable code.
func writeErrorCode(w http.ResponseWriter, statusCode int, code, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"code":   code,
		"error":  message,
	})
}

// WriteServiceError maps domain errors onto HTTP responses. Every condition
// is reported to the client; none are fatal.
func WriteServiceError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownTicker):
		return writeErrorCode(w, http.StatusNotFound, "unknown_ticker", err.Error())
	case errors.Is(err, models.ErrNoData):
		return writeErrorCode(w, http.StatusNotFound, "no_data", err.Error())
	case errors.Is(err, models.ErrInsufficientData):
		return writeErrorCode(w, http.StatusUnprocessableEntity, "insufficient_data", err.Error())
	case errors.Is(err, models.ErrProviderUnavailable):
		return writeErrorCode(w, http.StatusBadGateway, "provider_unavailable", err.Error())
	default:
		return writeErrorCode(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
