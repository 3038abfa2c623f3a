package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Write error intentionally ignored in response helper
}

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standard error response with the given status code,
// error code, and human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes the request body as JSON into v.
// It validates that the Content-Type header is application/json and
// returns an error for missing/incorrect content type or malformed JSON.
// Unknown fields are ignored, so clients may echo back derived fields.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	return nil
}

// writeServiceError maps a service error onto the standard error response.
// Storage failures are logged with the request id; their cause is
// reported to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", "Order not found")
	case domain.IsStorageFailure(err):
		logger.Error("storage failure",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		WriteError(w, http.StatusInternalServerError, "storage_failure", err.Error())
	default:
		logger.Error("unexpected error",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// formatTime renders t as RFC 3339 in UTC, or nil for the zero time.
func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
