// Package errors provides structured error types for geodome.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - DEGENERATE_FIT: Geometry that can never satisfy the printable volume
//   - NOT_FOUND / FILE_NOT_FOUND: Missing resources
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "gap must be positive, got %g", gap)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidGraph, origErr, "field %d", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Geometry errors
	ErrCodeDegenerateFit Code = "DEGENERATE_FIT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (and the cause, if any) without the
// code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
//
//   - INVALID_*       → 400 Bad Request
//   - DEGENERATE_FIT  → 422 Unprocessable Entity
//   - *NOT_FOUND      → 404 Not Found
//   - UNSUPPORTED     → 501 Not Implemented
//   - anything else   → 500 Internal Server Error
func HTTPStatus(err error) int {
	code := GetCode(err)
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == ErrCodeDegenerateFit:
		return http.StatusUnprocessableEntity
	case code == ErrCodeNotFound, code == ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
