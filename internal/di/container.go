// Package di wires the console's components with samber/do.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-console/internal/auth"
	"github.com/listenupapp/listenup-console/internal/config"
	"github.com/listenupapp/listenup-console/internal/di/providers"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/service"
	"github.com/listenupapp/listenup-console/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideValidator)

	// Storage and events
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Services
	do.Provide(injector, providers.ProvideStatusService)
	do.Provide(injector, providers.ProvideOptionService)
	do.Provide(injector, providers.ProvideNavigationService)
	do.Provide(injector, providers.ProvideBootstrap)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes every component in dependency order. The seed runs
// before the HTTP server starts accepting requests.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.StatusService](injector)
	_ = do.MustInvoke[*service.OptionService](injector)
	_ = do.MustInvoke[*service.NavigationService](injector)

	if _, err := do.Invoke[*providers.Bootstrap](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}

// NewCommandContainer registers the store and option services for command
// line tools. cfg is used as-is and the HTTP server is never started.
func NewCommandContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideStatusService)
	do.Provide(injector, providers.ProvideOptionService)

	return injector
}
