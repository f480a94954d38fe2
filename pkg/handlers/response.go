package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
)

// ApiResponse is the envelope for successful JSON responses.
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

// writeServiceError maps a service error onto a status code and error code.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, code, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	} else {
		logger.Debug("Request rejected", zap.String("error_code", code), zap.Error(err))
	}
	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, apperrors.ErrEmptyUpload):
		return http.StatusBadRequest, "empty_upload", "The uploaded file is empty"
	case errors.Is(err, apperrors.ErrParse):
		return http.StatusBadRequest, "parse_error", "The file could not be read as a CSV roster"
	case errors.Is(err, apperrors.ErrImportInProgress):
		return http.StatusConflict, "import_in_progress", "Another import is still running"
	case errors.Is(err, apperrors.ErrStaleResponse):
		return http.StatusConflict, "stale_response", "The roster changed while the request was running"
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusInternalServerError, "persistence_error", "The roster could not be saved; the previous roster is unchanged"
	default:
		return http.StatusInternalServerError, "internal_error", "Internal server error"
	}
}
