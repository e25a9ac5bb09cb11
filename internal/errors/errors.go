// Package errors defines the coded errors services hand to the API layer.
// The code picks the HTTP status and is sent to clients verbatim:
//
//	return errors.Validationf("unknown option key %q", key)
//
// Use errors.Is with the Err sentinels to test a code regardless of
// message.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable part of an Error.
type Code string

// Codes sent in the error envelope.
const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeNotFound:     http.StatusNotFound,
	CodeValidation:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeRateLimited:  http.StatusTooManyRequests,
}

// HTTPStatus maps the code to a status. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error carries a code, a client-facing message and optional per-field
// details. The wrapped cause is never shown to clients.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports a match on code alone, so errors.Is(err, ErrNotFound) holds
// for every not-found error.
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && other.Code == e.Code
}

// HTTPStatus returns the status for e's code.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

var (
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnauthorized = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrRateLimited  = &Error{Code: CodeRateLimited, Message: "too many requests"}
)

// New creates an Error with code and msg.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func NotFound(msg string) *Error { return New(CodeNotFound, msg) }

func NotFoundf(format string, args ...any) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

func Validation(msg string) *Error { return New(CodeValidation, msg) }

func Validationf(format string, args ...any) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

// ValidationWithDetails attaches per-field messages keyed by field path.
func ValidationWithDetails(msg string, details any) *Error {
	e := New(CodeValidation, msg)
	e.Details = details
	return e
}

func Forbidden(msg string) *Error { return New(CodeForbidden, msg) }

func RateLimited(msg string) *Error { return New(CodeRateLimited, msg) }

// Wrap attaches a code and client-facing message to err.
func Wrap(err error, code Code, msg string) *Error {
	return New(code, msg).WithCause(err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...)).WithCause(err)
}
