package api

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/auth"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/ratelimit"
	"github.com/listenupapp/listenup-console/internal/service"
	"github.com/listenupapp/listenup-console/internal/sse"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/store/sqlite"
	"github.com/listenupapp/listenup-console/internal/validation"
)

// testEnvelope decodes both success and error envelopes.
type testEnvelope[T any] struct {
	Version int               `json:"v"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope), "body: %s", body)
	return envelope
}

type testServer struct {
	*Server
	api        humatest.TestAPI
	store      store.OptionStore
	tokens     *auth.TokenService
	sseManager *sse.Manager
}

type testServerOption func(*testServerConfig)

type testServerConfig struct {
	rate       float64
	burst      int
	trustProxy bool
}

func withTrustedProxy() testServerOption {
	return func(c *testServerConfig) { c.trustProxy = true }
}

func withWriteLimit(rate float64, burst int) testServerOption {
	return func(c *testServerConfig) {
		c.rate = rate
		c.burst = burst
	}
}

// setupTestServer creates a test server backed by a temporary sqlite store.
func setupTestServer(t *testing.T, opts ...testServerOption) *testServer {
	t.Helper()

	cfg := testServerConfig{rate: 1000, burst: 1000}
	for _, opt := range opts {
		opt(&cfg)
	}

	log := logger.Discard()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "console.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	sseManager := sse.NewManager(log)
	go sseManager.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sseManager.Shutdown(ctx)
	})

	limiter := ratelimit.New(cfg.rate, cfg.burst, time.Minute)
	t.Cleanup(limiter.Stop)

	validator := validation.New()
	status := service.NewStatusService(st, "test", log)
	options := service.NewOptionService(st, validator, sseManager, status, log)
	services := &Services{
		Options:    options,
		Status:     status,
		Navigation: service.NewNavigationService(options, log),
	}

	s := NewServer(Config{Version: "test", TrustProxyHeaders: cfg.trustProxy}, st, services, tokens, sseManager, validator, limiter, log)

	return &testServer{
		Server:     s,
		api:        humatest.Wrap(t, s.API()),
		store:      st,
		tokens:     tokens,
		sseManager: sseManager,
	}
}

// adminHeader returns an Authorization header for humatest requests.
func (ts *testServer) adminHeader(t *testing.T) string {
	t.Helper()
	token, _, err := ts.tokens.Issue("ops")
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}
