package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/domain"
)

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	health := decodeEnvelope[HealthResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Equal(t, "healthy", health.Components["store"].Status)
	assert.Equal(t, "no connected clients", health.Components["sse"].Message)
}

func TestHealthCheck_StoreDown(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.store.Close())

	resp := ts.api.Get("/health")
	health := decodeEnvelope[HealthResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "unhealthy", health.Components["store"].Status)
}

func TestGetStatus(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/status")
	require.Equal(t, http.StatusOK, resp.Code)

	status := decodeEnvelope[map[string]any](t, resp.Body.Bytes()).Data
	assert.Equal(t, domain.DefaultHeaderNavModules().Encode(), status[domain.OptionHeaderNavModules])
	assert.Equal(t, domain.DefaultCustomerServiceConfig().Encode(), status[domain.OptionCustomerServiceConfig])
	assert.Equal(t, "test", status["version"])
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.False(t, decodeEnvelope[any](t, resp.Body.Bytes()).Success)
}

func TestRequestID(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.True(t, strings.HasPrefix(resp.Header().Get("X-Request-Id"), "req-"))

	resp = ts.api.Get("/health", "X-Request-Id: upstream-42")
	assert.Equal(t, "upstream-42", resp.Header().Get("X-Request-Id"))
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1:5555"))
	assert.Equal(t, "::1", clientIP("[::1]:5555"))
	assert.Equal(t, "203.0.113.9", clientIP("203.0.113.9"), "RealIP leaves a bare host")
}
