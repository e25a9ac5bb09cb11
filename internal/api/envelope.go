package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/listenup-console/internal/http/response"
)

// EnvelopeVersion is the current envelope format version.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses.
type APIEnvelope = response.Envelope //nolint:revive // mirrors APIError

// APIErrorEnvelope wraps error responses.
type APIErrorEnvelope = response.ErrorEnvelope //nolint:revive // mirrors APIError

// MessageBody is a response body whose Message is lifted into the
// envelope next to Data.
type MessageBody struct {
	Message string `json:"message" doc:"Message to show the user"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
}

// EnvelopeTransformer wraps every huma response body in the console
// envelope. Errors become APIErrorEnvelope; everything else APIEnvelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		return response.Failure(body.Code, body.Message, body.Details), nil
	case error:
		code, _ := strconv.Atoi(status)
		return response.Failure(response.CodeForStatus(code), body.Error(), nil), nil
	case MessageBody:
		return response.OK(body.Data, body.Message), nil
	case *MessageBody:
		return response.OK(body.Data, body.Message), nil
	default:
		return response.OK(v, ""), nil
	}
}
