// Package response defines the JSON envelope every console endpoint
// answers with, and writers for handlers that sit outside the huma API.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
)

// Version is the envelope format version, sent as "v".
const Version = 1

// Envelope wraps successful responses.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope wraps failures. Message is meant to be shown to the user.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OK builds a success envelope.
func OK(data any, message string) Envelope {
	return Envelope{Version: Version, Success: true, Message: message, Data: data}
}

// Failure builds an error envelope.
func Failure(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Version: Version, Code: code, Message: message, Details: details}
}

// CodeForStatus maps an HTTP status to the closest domain error code.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return string(domainerrors.CodeNotFound)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	default:
		return string(domainerrors.CodeInternal)
	}
}

// JSON writes body with the given status code.
func JSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// Success writes a 200 OK envelope around data.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, OK(data, ""), logger)
}

// Error writes an error envelope with the given status code.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, Failure(CodeForStatus(status), message, nil), logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, message, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, message, logger)
}

// ServiceUnavailable writes a 503 Service Unavailable response.
func ServiceUnavailable(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusServiceUnavailable, message, logger)
}
