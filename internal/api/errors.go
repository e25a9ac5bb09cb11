package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
	"github.com/listenupapp/listenup-console/internal/http/response"
	"github.com/listenupapp/listenup-console/internal/store"
)

// APIError is every error body huma writes. EnvelopeTransformer turns it
// into the {success:false} envelope.
type APIError struct { //nolint:revive // reads better than api.Error at call sites
	status  int
	Code    string `json:"code" doc:"Error code, e.g. VALIDATION"`
	Message string `json:"message" doc:"Message shown to the admin"`
	Details any    `json:"details,omitempty" doc:"Per-field messages"`
}

func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType implements huma.ContentTypeFilter.
func (e *APIError) ContentType(string) string {
	return "application/json"
}

// RegisterErrorHandler replaces huma.NewError so coded errors keep their
// code and status. huma.NewError is package state; call this before
// registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			if apiErr := fromKnownError(err); apiErr != nil {
				return apiErr
			}
		}

		var details any
		if len(errs) > 0 && status == http.StatusUnprocessableEntity {
			// Request body failed huma's schema validation.
			details = errs
		}

		return &APIError{
			status:  status,
			Code:    response.CodeForStatus(status),
			Message: message,
			Details: details,
		}
	}
}

// fromKnownError converts domain and store errors. It returns nil for
// anything else.
func fromKnownError(err error) *APIError {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return &APIError{
			status:  domainErr.HTTPStatus(),
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return &APIError{
			status:  storeErr.HTTPCode(),
			Code:    response.CodeForStatus(storeErr.HTTPCode()),
			Message: storeErr.Message,
		}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// mapError turns a service error into a huma.StatusError. Unknown errors
// become a 500 carrying fallback as the message and are logged.
func (s *Server) mapError(err error, fallback string) error {
	if apiErr := fromKnownError(err); apiErr != nil {
		return apiErr
	}
	s.logger.Error("request failed", "error", err)
	return &APIError{
		status:  http.StatusInternalServerError,
		Code:    string(domainerrors.CodeInternal),
		Message: fallback,
	}
}
