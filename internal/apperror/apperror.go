// Package apperror defines the application's error taxonomy.
//
// Services and repositories return these errors; the HTTP layer maps them to
// status codes in exactly one place (handler.writeError). Nothing below the
// handler boundary knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers check them with errors.Is, which walks the error
// chain through AppError.Unwrap.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream error")
)

// Issue describes a single violated constraint on a named field.
// Validation errors carry one Issue per violated constraint so the client can
// show every problem at once, not just the first.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is a typed application error: a sentinel for errors.Is checks,
// a human-readable message, and optional per-field issues.
type AppError struct {
	Err     error
	Message string
	Issues  []Issue
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthorized returns an AppError for requests with no resolved session.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Forbidden returns an AppError for a valid session lacking permission.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// NotFound returns an AppError for a missing resource. Maps to 404.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

// ValidationFailed wraps a list of field issues. Maps to 400.
func ValidationFailed(issues ...Issue) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "Validation failed",
		Issues:  issues,
	}
}

// Conflict returns an AppError for a uniqueness violation. Maps to 409.
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Upstream returns an AppError for a failed outbound call (GitHub). The
// message stays generic — callers see that the upstream failed, not why.
func Upstream(message string) *AppError {
	return &AppError{Err: ErrUpstream, Message: message}
}
