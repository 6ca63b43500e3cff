// Package apperr defines the error taxonomy shared by the store, the
// aggregation packages and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an application error.
type Type string

const (
	TypeValidation Type = "validation_error"
	TypeNotFound   Type = "not_found"
	TypeConflict   Type = "conflict"
	TypeInternal   Type = "internal_error"
)

// AppError is an error the HTTP layer can answer with a client-facing message.
type AppError struct {
	Type    Type
	Message string
	Code    int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Validation reports malformed input detected before any store access.
func Validation(format string, args ...any) *AppError {
	return &AppError{Type: TypeValidation, Message: fmt.Sprintf(format, args...), Code: http.StatusBadRequest}
}

// NotFound reports a missing row for a single-entity request.
func NotFound(format string, args ...any) *AppError {
	return &AppError{Type: TypeNotFound, Message: fmt.Sprintf(format, args...), Code: http.StatusNotFound}
}

// Conflict reports a write rejected by a hierarchy or referential rule.
func Conflict(format string, args ...any) *AppError {
	return &AppError{Type: TypeConflict, Message: fmt.Sprintf(format, args...), Code: http.StatusConflict}
}

// Internal reports a failure whose details must stay in the logs.
func Internal(message string) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Code: http.StatusInternalServerError}
}

// As extracts an AppError from err.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an AppError of type t.
func Is(err error, t Type) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}
