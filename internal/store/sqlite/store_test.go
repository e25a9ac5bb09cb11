package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.OptionStore {
		return newTestStore(t)
	})
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var name string
	require.NoError(t, s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'options'`).Scan(&name))
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, s.SetOption(t.Context(), "Footer", "© 2026"))
	require.NoError(t, s.Close())

	s, err = Open(path, logger.Discard())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetOption(t.Context(), "Footer")
	require.NoError(t, err)
	assert.Equal(t, "© 2026", got.Value)
}

func TestSetOption_UpdatesTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	first := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return first }
	require.NoError(t, s.SetOption(ctx, "Notice", "maintenance tonight"))

	second := first.Add(time.Hour)
	s.now = func() time.Time { return second }
	require.NoError(t, s.SetOption(ctx, "Notice", "maintenance done"))

	got, err := s.GetOption(ctx, "Notice")
	require.NoError(t, err)
	assert.Equal(t, "maintenance done", got.Value)
	assert.True(t, got.UpdatedAt.Equal(second))
}
