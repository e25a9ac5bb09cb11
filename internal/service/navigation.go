package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/listenupapp/listenup-console/internal/domain"
	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
	"github.com/listenupapp/listenup-console/internal/i18n"
)

// NavigationService derives what the console header shows from the stored
// options.
type NavigationService struct {
	options *OptionService
	logger  *slog.Logger
}

// NewNavigationService creates a new navigation service.
func NewNavigationService(options *OptionService, logger *slog.Logger) *NavigationService {
	return &NavigationService{
		options: options,
		logger:  logger,
	}
}

// Links returns the header links, labelled for the Accept-Language value lang.
func (s *NavigationService) Links(ctx context.Context, lang string) ([]domain.NavLink, error) {
	modules, err := s.options.HeaderNavModules(ctx)
	if err != nil {
		return nil, err
	}
	docsLink, err := s.options.Value(ctx, domain.OptionDocsLink)
	if err != nil {
		return nil, err
	}
	return domain.DeriveNavLinks(modules, docsLink, i18n.Match(lang)), nil
}

// Iframe resolves the custom menu behind the /iframe/{id} route.
func (s *NavigationService) Iframe(ctx context.Context, id string) (*domain.CustomMenu, error) {
	modules, err := s.options.HeaderNavModules(ctx)
	if err != nil {
		return nil, err
	}

	menu, err := domain.ResolveIframeMenu(modules, id)
	if errors.Is(err, domain.ErrIframeNotFound) {
		s.logger.Debug("iframe route did not resolve", "id", id)
		return nil, domainerrors.NotFound(i18n.MsgInvalidLink).WithCause(err)
	}
	return menu, err
}

// CanViewPricing reports whether the caller may open the pricing page.
func (s *NavigationService) CanViewPricing(ctx context.Context, authenticated bool) (bool, error) {
	modules, err := s.options.HeaderNavModules(ctx)
	if err != nil {
		return false, err
	}
	if !modules.Pricing.Enabled {
		return false, nil
	}
	return authenticated || !modules.Pricing.RequireAuth, nil
}
