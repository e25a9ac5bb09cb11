// Package api provides the HTTP API server and handlers for the ListenUp console.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/listenup-console/internal/auth"
	"github.com/listenupapp/listenup-console/internal/http/response"
	"github.com/listenupapp/listenup-console/internal/id"
	"github.com/listenupapp/listenup-console/internal/ratelimit"
	"github.com/listenupapp/listenup-console/internal/sse"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/validation"
)

// Config holds the settings the HTTP layer needs.
type Config struct {
	Version string
	// CORSAllowedOrigins lists allowed browser origins. Empty allows all.
	CORSAllowedOrigins []string
	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For/X-Real-IP.
	TrustProxyHeaders bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	version      string
	store        store.OptionStore
	services     *Services
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	sseManager   *sse.Manager
	validator    *validation.Validator
	writeLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg Config,
	store store.OptionStore,
	services *Services,
	tokens *auth.TokenService,
	sseManager *sse.Manager,
	validator *validation.Validator,
	writeLimiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	router.Use(requestID)
	if cfg.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(authMiddleware(tokens))

	humaConfig := huma.DefaultConfig("ListenUp Console API", cfg.Version)
	humaConfig.Info.Description = "Console options, navigation and change events"
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		version:      cfg.Version,
		store:        store,
		services:     services,
		router:       router,
		api:          api,
		logger:       logger,
		sseManager:   sseManager,
		validator:    validator,
		writeLimiter: writeLimiter,
	}

	s.registerHealthRoutes()
	s.registerStatusRoutes()
	s.registerOptionRoutes()
	s.registerNavigationRoutes()

	if sseManager != nil {
		router.Get("/api/events", sse.NewHandler(sseManager, logger).ServeHTTP)
	}

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", logger)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "method not allowed", logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, e.g. for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           int((5 * time.Minute).Seconds()),
	})
}

// requestID keeps an incoming X-Request-Id or assigns a req- id, echoes it
// on the response and stores it under chi's RequestIDKey.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(middleware.RequestIDHeader)
		if reqID == "" {
			reqID = id.MustGenerate(id.PrefixRequest)
		}
		w.Header().Set(middleware.RequestIDHeader, reqID)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger writes one slog line per request. The event stream is
// logged by the SSE handler instead, since it stays open.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/events" {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			began := time.Now()
			next.ServeHTTP(ww, r)

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(began),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr)
		})
	}
}
