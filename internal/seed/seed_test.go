package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/domain"
	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/service"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/store/sqlite"
	"github.com/listenupapp/listenup-console/internal/validation"
)

const seedYAML = `
SystemName: ListenUp
DocsLink: https://docs.example.com
Notice:
HeaderNavModules:
  home: true
  console: true
  pricing:
    enabled: true
    requireAuth: true
  docs: false
  about: true
  customMenus:
    - text: Wiki
      url: https://wiki.example.com
      type: iframe
      enabled: true
`

func TestParse(t *testing.T) {
	values, err := Parse([]byte(seedYAML))
	require.NoError(t, err)

	assert.Equal(t, "ListenUp", values["SystemName"])
	assert.Equal(t, "https://docs.example.com", values["DocsLink"])
	assert.Equal(t, "", values["Notice"])

	modules, err := domain.ParseHeaderNavModules(values["HeaderNavModules"])
	require.NoError(t, err)
	assert.True(t, modules.Pricing.RequireAuth)
	assert.False(t, modules.Docs)
	require.Len(t, modules.CustomMenus, 1)
	assert.Equal(t, domain.MenuIframe, modules.CustomMenus[0].Type)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("- just\n- a list\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	values, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, values, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func newApplier(t *testing.T) (*Applier, store.OptionStore) {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "console.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	options := service.NewOptionService(s, validation.New(), service.NewNoopEmitter(), nil, logger.Discard())
	return NewApplier(s, options, logger.Discard()), s
}

func TestApplier_ApplyMissingKeepsEdits(t *testing.T) {
	a, s := newApplier(t)
	ctx := context.Background()

	require.NoError(t, s.SetOption(ctx, domain.OptionSystemName, "Edited"))

	values, err := Parse([]byte(seedYAML))
	require.NoError(t, err)

	result, err := a.ApplyMissing(ctx, values)
	require.NoError(t, err)
	assert.Equal(t, []string{"DocsLink", "HeaderNavModules", "Notice"}, result.Applied)
	assert.Equal(t, []string{"SystemName"}, result.Skipped)

	opt, err := s.GetOption(ctx, domain.OptionSystemName)
	require.NoError(t, err)
	assert.Equal(t, "Edited", opt.Value)

	// A second boot finds everything stored.
	result, err = a.ApplyMissing(ctx, values)
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
}

func TestApplier_ApplyAllOverwrites(t *testing.T) {
	a, s := newApplier(t)
	ctx := context.Background()

	require.NoError(t, s.SetOption(ctx, domain.OptionSystemName, "Edited"))

	result, err := a.ApplyAll(ctx, map[string]string{domain.OptionSystemName: "Seeded"})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.OptionSystemName}, result.Applied)

	opt, err := s.GetOption(ctx, domain.OptionSystemName)
	require.NoError(t, err)
	assert.Equal(t, "Seeded", opt.Value)
}

func TestApplier_RejectsInvalidValues(t *testing.T) {
	a, _ := newApplier(t)

	_, err := a.ApplyAll(context.Background(), map[string]string{"Unregistered": "x"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = a.ApplyAll(context.Background(), map[string]string{
		domain.OptionHeaderNavModules: `{"customMenus":[{"text":"x","url":"nope","type":"external","enabled":true}]}`,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
