package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/domain"
	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/sse"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/store/sqlite"
	"github.com/listenupapp/listenup-console/internal/validation"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingEmitter) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := event.(sse.Event); ok {
		r.events = append(r.events, e)
	}
}

func (r *recordingEmitter) last(t *testing.T) sse.Event {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}

type testServices struct {
	store   store.OptionStore
	events  *recordingEmitter
	status  *StatusService
	options *OptionService
	nav     *NavigationService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "console.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	events := &recordingEmitter{}
	status := NewStatusService(s, "1.2.3", logger.Discard())
	options := NewOptionService(s, validation.New(), events, status, logger.Discard())

	return &testServices{
		store:   s,
		events:  events,
		status:  status,
		options: options,
		nav:     NewNavigationService(options, logger.Discard()),
	}
}

func TestOptionService_UpdateString(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	opt, err := ts.options.Update(ctx, domain.OptionDocsLink, "https://docs.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", opt.Value)

	stored, err := ts.store.GetOption(ctx, domain.OptionDocsLink)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", stored.Value)

	e := ts.events.last(t)
	assert.Equal(t, sse.EventOptionUpdated, e.Type)
	assert.Equal(t, sse.OptionEventData{Key: domain.OptionDocsLink, Value: "https://docs.example.com"}, e.Data)
}

func TestOptionService_UpdateUnknownKey(t *testing.T) {
	ts := setupServices(t)

	_, err := ts.options.Update(context.Background(), "NotAnOption", "x")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Empty(t, ts.events.events)
}

func TestOptionService_UpdateDocumentNormalizes(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	legacy := `{"home":true,"console":false,"pricing":true,"docs":true,"about":false,"theme":"dark"}`
	opt, err := ts.options.Update(ctx, domain.OptionHeaderNavModules, legacy)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(opt.Value), &got))
	want := map[string]any{
		"home":        true,
		"console":     false,
		"pricing":     map[string]any{"enabled": true, "requireAuth": false},
		"docs":        true,
		"about":       false,
		"customMenus": []any{},
		"theme":       "dark",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored document mismatch (-want +got):\n%s", diff)
	}

	modules, err := ts.options.HeaderNavModules(ctx)
	require.NoError(t, err)
	assert.False(t, modules.Console)
	assert.True(t, modules.Pricing.Enabled)
}

func TestOptionService_UpdateDocumentRejected(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"malformed json", domain.OptionHeaderNavModules, `{"home":`},
		{"bad menu type", domain.OptionHeaderNavModules, `{"customMenus":[{"text":"a","url":"/a","type":"popup","enabled":true}]}`},
		{"relative iframe url", domain.OptionHeaderNavModules, `{"customMenus":[{"text":"a","url":"/a","type":"iframe","enabled":true}]}`},
		{"relative support link", domain.OptionCustomerServiceConfig, `{"enabled":true,"login":{"enabled":true,"link":"support"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupServices(t)

			_, err := ts.options.Update(context.Background(), tt.key, tt.value)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			_, err = ts.store.GetOption(context.Background(), tt.key)
			assert.ErrorIs(t, err, store.ErrNotFound, "rejected value must not be stored")
		})
	}
}

func TestOptionService_Get(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	opt, err := ts.options.Get(ctx, domain.OptionCustomerServiceConfig)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCustomerServiceConfig().Encode(), opt.Value)
	assert.True(t, opt.UpdatedAt.IsZero())

	_, err = ts.options.Get(ctx, "Missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestOptionService_List(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	_, err := ts.options.Update(ctx, domain.OptionSystemName, "Console")
	require.NoError(t, err)
	_, err = ts.options.Update(ctx, domain.OptionAbout, "about")
	require.NoError(t, err)

	opts, err := ts.options.List(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, domain.OptionAbout, opts[0].Key)
	assert.Equal(t, domain.OptionSystemName, opts[1].Key)
}

func TestOptionService_Reset(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	_, err := ts.options.Update(ctx, domain.OptionHeaderNavModules, `{"home":false}`)
	require.NoError(t, err)
	_, err = ts.options.Update(ctx, domain.OptionFooter, "footer")
	require.NoError(t, err)

	opt, err := ts.options.Reset(ctx, domain.OptionHeaderNavModules)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHeaderNavModules().Encode(), opt.Value)

	stored, err := ts.store.GetOption(ctx, domain.OptionHeaderNavModules)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHeaderNavModules().Encode(), stored.Value)
	assert.Equal(t, sse.EventOptionReset, ts.events.last(t).Type)

	_, err = ts.options.Reset(ctx, domain.OptionFooter)
	require.NoError(t, err)
	_, err = ts.store.GetOption(ctx, domain.OptionFooter)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Resetting an unset plain option is not an error.
	_, err = ts.options.Reset(ctx, domain.OptionNotice)
	assert.NoError(t, err)

	_, err = ts.options.Reset(ctx, "Bogus")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestOptionService_UnreadableDocumentsFallBack(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	// Written around the service, as an older console might have.
	require.NoError(t, ts.store.SetOption(ctx, domain.OptionHeaderNavModules, "not json"))
	require.NoError(t, ts.store.SetOption(ctx, domain.OptionCustomerServiceConfig, "[1,2"))

	modules, err := ts.options.HeaderNavModules(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHeaderNavModules(), modules)

	cfg, err := ts.options.CustomerServiceConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCustomerServiceConfig(), cfg)
}

func TestOptionService_CustomerServiceConfigMergesDefaults(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()

	_, err := ts.options.Update(ctx, domain.OptionCustomerServiceConfig,
		`{"enabled":true,"topup":{"enabled":true,"linkText":"Help","link":"https://help.example.com"}}`)
	require.NoError(t, err)

	cfg, err := ts.options.CustomerServiceConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "Help", cfg.Topup.LinkText)
	assert.Equal(t, domain.DefaultCustomerServiceConfig().Login, cfg.Login)
}

func TestOptionService_CanceledContext(t *testing.T) {
	ts := setupServices(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ts.options.Update(ctx, domain.OptionLogo, "/logo.png")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = ts.options.Reset(ctx, domain.OptionLogo)
	assert.ErrorIs(t, err, context.Canceled)
}
