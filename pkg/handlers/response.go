package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
)

// ApiResponse is the standard success envelope for API responses.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// respondServiceError maps service layer errors to HTTP error responses.
// fallbackCode names the operation for errors with no more specific mapping.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallbackCode string) {
	status := http.StatusInternalServerError
	code := fallbackCode
	message := err.Error()

	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		code = "validation_failed"
		message = ve.Message
	case errors.Is(err, apperrors.ErrUnknownKind):
		status = http.StatusBadRequest
		code = "unknown_kind"
	case errors.Is(err, apperrors.ErrInjectionDetected):
		status = http.StatusBadRequest
		code = "invalid_search"
		message = "Search input rejected"
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		message = "Record not found"
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		code = "conflict"
	}

	if writeErr := ErrorResponse(w, status, code, message); writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
