package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/listenup-console/internal/domain"
	"github.com/listenupapp/listenup-console/internal/i18n"
)

func (s *Server) registerNavigationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getNavigation",
		Method:      http.MethodGet,
		Path:        "/api/nav",
		Summary:     "Get header navigation",
		Description: "Returns the header links in display order, labelled for Accept-Language",
		Tags:        []string{"Navigation"},
	}, s.handleGetNavigation)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIframe",
		Method:      http.MethodGet,
		Path:        "/api/iframe/{id}",
		Summary:     "Resolve iframe route",
		Description: "Returns the custom menu embedded at /iframe/{id}",
		Tags:        []string{"Navigation"},
	}, s.handleGetIframe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPricingAccess",
		Method:      http.MethodGet,
		Path:        "/api/pricing/access",
		Summary:     "Check pricing access",
		Description: "Reports whether the caller may open the pricing page",
		Tags:        []string{"Navigation"},
	}, s.handleGetPricingAccess)
}

// NavigationInput selects the label language. Lang overrides Accept-Language.
type NavigationInput struct {
	AcceptLanguage string `header:"Accept-Language"`
	Lang           string `query:"lang" doc:"Language tag overriding Accept-Language"`
}

// NavigationOutput wraps the header links for Huma.
type NavigationOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         []domain.NavLink
}

func (s *Server) handleGetNavigation(ctx context.Context, input *NavigationInput) (*NavigationOutput, error) {
	lang := input.AcceptLanguage
	if input.Lang != "" {
		lang = input.Lang
	}

	links, err := s.services.Navigation.Links(ctx, lang)
	if err != nil {
		return nil, s.mapError(err, "Failed to load navigation")
	}
	return &NavigationOutput{CacheControl: CacheNoStore, Body: links}, nil
}

// IframeInput is the route parameter of /iframe/{id}.
type IframeInput struct {
	AcceptLanguage string `header:"Accept-Language"`
	ID             string `path:"id" doc:"Position among the visible iframe menus"`
}

// IframeResponse is the entry to embed.
type IframeResponse struct {
	Text    string `json:"text" doc:"Menu label"`
	URL     string `json:"url" doc:"Page to embed"`
	Sandbox string `json:"sandbox" doc:"iframe sandbox attribute"`
}

// IframeOutput wraps the iframe entry for Huma.
type IframeOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         IframeResponse
}

func (s *Server) handleGetIframe(ctx context.Context, input *IframeInput) (*IframeOutput, error) {
	menu, err := s.services.Navigation.Iframe(ctx, input.ID)
	if err != nil {
		mapped := s.mapError(err, "Failed to load menu")
		if apiErr, ok := mapped.(*APIError); ok && apiErr.status == http.StatusNotFound {
			apiErr.Message = i18n.Match(input.AcceptLanguage).T(apiErr.Message)
		}
		return nil, mapped
	}

	return &IframeOutput{
		CacheControl: CacheNoStore,
		Body: IframeResponse{
			Text:    menu.Text,
			URL:     menu.URL,
			Sandbox: domain.IframeSandbox,
		},
	}, nil
}

// PricingAccessResponse reports whether the pricing page may be opened.
type PricingAccessResponse struct {
	Allowed     bool `json:"allowed" doc:"Whether the caller may open the pricing page"`
	Enabled     bool `json:"enabled" doc:"Whether the pricing module is switched on"`
	RequireAuth bool `json:"requireAuth" doc:"Whether pricing requires login"`
}

// PricingAccessOutput wraps the pricing access check for Huma.
type PricingAccessOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         PricingAccessResponse
}

func (s *Server) handleGetPricingAccess(ctx context.Context, _ *struct{}) (*PricingAccessOutput, error) {
	allowed, err := s.services.Navigation.CanViewPricing(ctx, isAuthenticated(ctx))
	if err != nil {
		return nil, s.mapError(err, "Failed to check pricing access")
	}

	modules, err := s.services.Options.HeaderNavModules(ctx)
	if err != nil {
		return nil, s.mapError(err, "Failed to check pricing access")
	}

	return &PricingAccessOutput{
		CacheControl: CacheNoStore,
		Body: PricingAccessResponse{
			Allowed:     allowed,
			Enabled:     modules.Pricing.Enabled,
			RequireAuth: modules.Pricing.RequireAuth,
		},
	}, nil
}
