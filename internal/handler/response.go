// Package handler contains the HTTP route handlers.
//
// Every route answers with the same envelope:
//
//	{"status": "success"|"error", "message": ..., "data": ..., "errors": [...]}
//
// and the envelope status always agrees with the HTTP status code. The
// helpers below are the only place that shape is produced, and writeError is
// the only place domain errors are mapped to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/omk-66/playgrounds/internal/apperror"
)

// Envelope is the uniform response wrapper used by all API routes.
type Envelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message,omitempty"`
	Data    any              `json:"data,omitempty"`
	Errors  []apperror.Issue `json:"errors,omitempty"`
}

// writeJSON sends v with the given status code. Headers and status must go
// out before the body — once Encode writes, they're sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already gone; all we can do is log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeSuccess sends a success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// writeError maps a domain error to its HTTP status and sends an error
// envelope. This is the handler boundary: everything a service or repository
// returns comes through here, and nothing propagates to the transport layer.
//
// Unknown errors become a generic 500 — the raw message might contain SQL or
// file paths, so it is never leaked to the caller.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusBadGateway
		}

		writeJSON(w, status, Envelope{
			Status:  "error",
			Message: appErr.Message,
			Errors:  appErr.Issues,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, Envelope{
		Status:  "error",
		Message: "Internal server error",
	})
}
