package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-console/internal/api"
	"github.com/listenupapp/listenup-console/internal/auth"
	"github.com/listenupapp/listenup-console/internal/config"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/ratelimit"
	"github.com/listenupapp/listenup-console/internal/service"
	"github.com/listenupapp/listenup-console/internal/validation"
)

// limiterIdleTTL is how long a client's write bucket survives without use.
const limiterIdleTTL = 10 * time.Minute

// RateLimiterHandle wraps the per-IP write limiter with Shutdownable.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the option write limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.RateLimit.Rate, cfg.RateLimit.Burst, limiterIdleTTL),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer builds the API and starts serving it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Options:    do.MustInvoke[*service.OptionService](i),
		Status:     do.MustInvoke[*service.StatusService](i),
		Navigation: do.MustInvoke[*service.NavigationService](i),
	}

	handler := api.NewServer(
		api.Config{
			Version:            cfg.App.Version,
			CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
			TrustProxyHeaders:  cfg.Server.TrustProxyHeaders,
		},
		storeHandle.OptionStore,
		services,
		tokens,
		sseHandle.Manager,
		validator,
		limiter.KeyedRateLimiter,
		log.Component("api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
