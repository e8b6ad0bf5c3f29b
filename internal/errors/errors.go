// Package errors provides standardized domain errors with codes for the Linkloft API.
//
// Services return typed errors; handlers either check with errors.Is or
// inspect the Code for dispatch:
//
//	if userExists {
//	    return errors.Conflict("you already have a bookmark for this site")
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeValidation         Code = "VALIDATION"
	CodeConflict           Code = "CONFLICT"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of the error wrapping an underlying cause.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for errors.Is checks against codes.
var (
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrConflict     = &Error{Code: CodeConflict, Message: "conflict"}
	ErrUnauthorized = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &Error{Code: CodeForbidden, Message: "forbidden"}
)

// NotFound creates a not-found error with a custom message.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Validation creates a validation error with a custom message.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// ValidationWithDetails creates a validation error carrying per-field details.
func ValidationWithDetails(message string, details any) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// Conflict creates a conflict error with a custom message.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Unauthorized creates an unauthorized error with a custom message.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// InvalidCredentials creates a credential-failure error.
// Deliberately vague so responses do not reveal which part was wrong.
func InvalidCredentials() *Error {
	return &Error{Code: CodeInvalidCredentials, Message: "invalid username or password"}
}

// Internal creates an internal error wrapping a cause.
func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, cause: cause}
}
