package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
	"github.com/listenupapp/listenup-console/internal/ratelimit"
)

// rateLimitMiddleware limits an operation per client IP. Over the limit
// the request fails with 429 in the usual error envelope.
func rateLimitMiddleware(api huma.API, limiter *ratelimit.KeyedRateLimiter, logger interface{ Warn(msg string, args ...any) }) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx.RemoteAddr())

		if !limiter.Allow(key) {
			logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", ctx.URL().Path,
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, //nolint:errcheck // response already failed
				"Too many requests. Please try again later.",
				domainerrors.RateLimited("Too many requests. Please try again later."))
			return
		}

		next(ctx)
	}
}

// clientIP is the host part of remoteAddr. Forwarding headers are only
// honored through middleware.RealIP when the server trusts its proxy, so a
// caller cannot pick a fresh limiter key per request.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
