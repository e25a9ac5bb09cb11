package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/logger"
)

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]string{"key": "value"}, logger.Discard())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(Version), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"key": "value"}, body["data"])
	assert.NotContains(t, body, "message")
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
	}{
		{"not found", func(w http.ResponseWriter) { NotFound(w, "nope", nil) }, http.StatusNotFound, "NOT_FOUND"},
		{"method", func(w http.ResponseWriter) { MethodNotAllowed(w, "nope", nil) }, http.StatusMethodNotAllowed, "NOT_FOUND"},
		{"unavailable", func(w http.ResponseWriter) { ServiceUnavailable(w, "nope", nil) }, http.StatusServiceUnavailable, "INTERNAL"},
		{"too many", func(w http.ResponseWriter) { Error(w, http.StatusTooManyRequests, "nope", nil) }, http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)

			var body ErrorEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "nope", body.Message)
			assert.Equal(t, Version, body.Version)
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, "VALIDATION", CodeForStatus(http.StatusBadRequest))
	assert.Equal(t, "VALIDATION", CodeForStatus(http.StatusUnprocessableEntity))
	assert.Equal(t, "UNAUTHORIZED", CodeForStatus(http.StatusUnauthorized))
	assert.Equal(t, "FORBIDDEN", CodeForStatus(http.StatusForbidden))
	assert.Equal(t, "INTERNAL", CodeForStatus(http.StatusTeapot))
}
