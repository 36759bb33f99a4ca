package apperrors

import (
	"errors"
	"fmt"
)

// Code is the closed set of error codes surfaced to API clients.
type Code string

const (
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeCannotDeleteSelf  Code = "CANNOT_DELETE_SELF"
	CodeServerError       Code = "SERVER_ERROR"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
	CodeEmailFailed       Code = "EMAIL_FAILED"
	CodeValidationError   Code = "VALIDATION_ERROR"
)

// AppError carries a stable code plus an optional human message and the wrapped
// cause. Handlers translate it into the JSON error envelope; the cause is logged
// but never sent to the client for SERVER_ERROR.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with a message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a cause to an AppError.
func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from an error chain, defaulting to SERVER_ERROR.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeServerError
}

// Sentinel guard errors thrown by the auth layer.
var (
	ErrUnauthenticated = New(CodeUnauthenticated, "authentication required")
	ErrForbidden       = New(CodeForbidden, "insufficient permissions")
)
