package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerStatusRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatus",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Get status context",
		Description: "Returns the options every console page loads. Structured options are JSON strings.",
		Tags:        []string{"Status"},
	}, s.handleGetStatus)
}

// StatusOutput wraps the status context for Huma.
type StatusOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         map[string]any
}

func (s *Server) handleGetStatus(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	status, err := s.services.Status.Status(ctx)
	if err != nil {
		return nil, s.mapError(err, "Failed to load status")
	}
	return &StatusOutput{CacheControl: CacheNoStore, Body: status}, nil
}
