package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/store/storetest"
)

// These tests need a disposable database:
//
//	TEST_DATABASE_URL=postgres://localhost/console_test go test ./internal/store/postgres
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := Open(t.Context(), url, logger.Discard())
	require.NoError(t, err)
	_, err = s.pool.Exec(t.Context(), `TRUNCATE options`)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.OptionStore {
		return newTestStore(t)
	})
}
