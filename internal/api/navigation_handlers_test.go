package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/domain"
)

func (ts *testServer) saveNav(t *testing.T, doc string) {
	t.Helper()
	resp := ts.api.Put("/api/option/", ts.adminHeader(t),
		map[string]any{"key": domain.OptionHeaderNavModules, "value": doc})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestGetNavigation(t *testing.T) {
	ts := setupTestServer(t)
	ts.saveNav(t, `{
		"home": true, "console": false, "pricing": true, "docs": true, "about": true,
		"customMenus": [
			{"text": "Wiki", "url": "https://wiki.example.com", "type": "iframe", "enabled": true},
			{"text": "Guide", "url": "/guide", "type": "internal", "enabled": true}
		]
	}`)

	resp := ts.api.Get("/api/nav?lang=en")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, CacheNoStore, resp.Header().Get("Cache-Control"))

	links := decodeEnvelope[[]domain.NavLink](t, resp.Body.Bytes()).Data
	require.Len(t, links, 5)
	assert.Equal(t, domain.NavLink{Text: "Home", ItemKey: "home", To: "/"}, links[0])
	assert.Equal(t, "Pricing", links[1].Text)
	assert.Equal(t, "About", links[2].Text)
	assert.Equal(t, domain.NavLink{Text: "Wiki", ItemKey: "custom_0", To: "/iframe/0"}, links[3])
	assert.Equal(t, domain.NavLink{Text: "Guide", ItemKey: "custom_1", To: "/guide"}, links[4])
}

func TestGetNavigation_AcceptLanguage(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/nav", "Accept-Language: fr-FR")
	require.Equal(t, http.StatusOK, resp.Code)

	links := decodeEnvelope[[]domain.NavLink](t, resp.Body.Bytes()).Data
	require.NotEmpty(t, links)
	assert.Equal(t, domain.LabelHome, links[0].Text, "unsupported languages use the source labels")
}

func TestGetIframe(t *testing.T) {
	ts := setupTestServer(t)
	ts.saveNav(t, `{"customMenus": [
		{"text": "Wiki", "url": "https://wiki.example.com", "type": "iframe", "enabled": true},
		{"text": "Off", "url": "https://off.example.com", "type": "iframe", "enabled": false},
		{"text": "Status", "url": "https://status.example.com", "type": "iframe", "enabled": true}
	]}`)

	resp := ts.api.Get("/api/iframe/1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeEnvelope[IframeResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "Status", body.Text)
	assert.Equal(t, "https://status.example.com", body.URL)
	assert.Equal(t, domain.IframeSandbox, body.Sandbox)
}

func TestGetIframe_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/iframe/0")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "无效的链接", envelope.Message)

	resp = ts.api.Get("/api/iframe/abc", "Accept-Language: en")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Invalid link", decodeEnvelope[any](t, resp.Body.Bytes()).Message)
}

func TestGetPricingAccess(t *testing.T) {
	ts := setupTestServer(t)
	ts.saveNav(t, `{"pricing": {"enabled": true, "requireAuth": true}}`)

	resp := ts.api.Get("/api/pricing/access")
	require.Equal(t, http.StatusOK, resp.Code)
	anon := decodeEnvelope[PricingAccessResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, PricingAccessResponse{Allowed: false, Enabled: true, RequireAuth: true}, anon)

	resp = ts.api.Get("/api/pricing/access", ts.adminHeader(t))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decodeEnvelope[PricingAccessResponse](t, resp.Body.Bytes()).Data.Allowed)
}
