package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/listenup-console/internal/domain"
	"github.com/listenupapp/listenup-console/internal/i18n"
)

func (s *Server) registerOptionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOptions",
		Method:      http.MethodGet,
		Path:        "/api/option/",
		Summary:     "List options",
		Description: "Returns every stored option sorted by key",
		Tags:        []string{"Options"},
		Security:    bearerSecurity,
	}, s.handleListOptions)

	put := huma.Operation{
		OperationID: "updateOption",
		Method:      http.MethodPut,
		Path:        "/api/option/",
		Summary:     "Save option",
		Description: "Replaces the value stored under key. Structured options must be valid JSON documents.",
		Tags:        []string{"Options"},
		Security:    bearerSecurity,
	}
	if s.writeLimiter != nil {
		put.Middlewares = huma.Middlewares{rateLimitMiddleware(s.api, s.writeLimiter, s.logger)}
	}
	huma.Register(s.api, put, s.handleUpdateOption)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetOption",
		Method:      http.MethodDelete,
		Path:        "/api/option/{key}",
		Summary:     "Reset option",
		Description: "Restores the default value of an option",
		Tags:        []string{"Options"},
		Security:    bearerSecurity,
	}, s.handleResetOption)
}

// OptionResponse is one stored option.
type OptionResponse struct {
	Key       string     `json:"key" doc:"Option key"`
	Value     string     `json:"value" doc:"Stored value; JSON text for structured options"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" doc:"Last write, absent for defaults"`
}

func toOptionResponse(o *domain.Option) OptionResponse {
	resp := OptionResponse{Key: o.Key, Value: o.Value}
	if !o.UpdatedAt.IsZero() {
		t := o.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

// ListOptionsOutput wraps the option list for Huma.
type ListOptionsOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         []OptionResponse
}

func (s *Server) handleListOptions(ctx context.Context, _ *struct{}) (*ListOptionsOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	opts, err := s.services.Options.List(ctx)
	if err != nil {
		return nil, s.mapError(err, "Failed to list options")
	}

	body := make([]OptionResponse, 0, len(opts))
	for _, o := range opts {
		body = append(body, toOptionResponse(o))
	}
	return &ListOptionsOutput{CacheControl: CacheNoStore, Body: body}, nil
}

// UpdateOptionRequest is the PUT /api/option/ body.
type UpdateOptionRequest struct {
	Key   string `json:"key" validate:"required,max=255,optionkey" doc:"Option key"`
	Value string `json:"value" doc:"New value, stored wholesale"`
}

// UpdateOptionInput wraps the update request for Huma.
type UpdateOptionInput struct {
	AcceptLanguage string `header:"Accept-Language"`
	Body           UpdateOptionRequest
}

// OptionMessageOutput carries a user-facing message and the affected option.
type OptionMessageOutput struct {
	Body MessageBody
}

func (s *Server) handleUpdateOption(ctx context.Context, input *UpdateOptionInput) (*OptionMessageOutput, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	tr := i18n.Match(input.AcceptLanguage)

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, s.mapError(err, tr.T(i18n.MsgSaveFailed))
	}

	opt, err := s.services.Options.Update(ctx, input.Body.Key, input.Body.Value)
	if err != nil {
		return nil, s.mapError(err, tr.T(i18n.MsgSaveFailed))
	}

	s.logger.Info("option saved via API", "key", opt.Key, "subject", claims.Subject)

	return &OptionMessageOutput{
		Body: MessageBody{Message: tr.T(i18n.MsgSaved), Data: toOptionResponse(opt)},
	}, nil
}

// ResetOptionInput names the option to reset.
type ResetOptionInput struct {
	AcceptLanguage string `header:"Accept-Language"`
	Key            string `path:"key" maxLength:"255" doc:"Option key"`
}

func (s *Server) handleResetOption(ctx context.Context, input *ResetOptionInput) (*OptionMessageOutput, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	tr := i18n.Match(input.AcceptLanguage)

	opt, err := s.services.Options.Reset(ctx, input.Key)
	if err != nil {
		return nil, s.mapError(err, tr.T(i18n.MsgSaveFailed))
	}

	s.logger.Info("option reset via API", "key", opt.Key, "subject", claims.Subject)

	return &OptionMessageOutput{
		Body: MessageBody{Message: tr.T(i18n.MsgReset), Data: toOptionResponse(opt)},
	}, nil
}
