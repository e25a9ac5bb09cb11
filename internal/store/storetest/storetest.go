// Package storetest holds the behavior every store.OptionStore backend must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-console/internal/domain"
	"github.com/listenupapp/listenup-console/internal/store"
)

// Factory returns an empty store. The store is closed by the factory's own
// cleanup.
type Factory func(t *testing.T) store.OptionStore

// Run exercises a backend against the OptionStore contract.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetOption(t.Context(), domain.OptionDocsLink)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		raw := `{"home":true,"customMenus":[{"text":"帮助","url":"/help","enabled":true}]}`
		require.NoError(t, s.SetOption(ctx, domain.OptionHeaderNavModules, raw))

		got, err := s.GetOption(ctx, domain.OptionHeaderNavModules)
		require.NoError(t, err)
		assert.Equal(t, domain.OptionHeaderNavModules, got.Key)
		assert.Equal(t, raw, got.Value, "values are stored verbatim")
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("LastWriteWins", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.SetOption(ctx, domain.OptionFooter, "first"))
		require.NoError(t, s.SetOption(ctx, domain.OptionFooter, "second"))

		got, err := s.GetOption(ctx, domain.OptionFooter)
		require.NoError(t, err)
		assert.Equal(t, "second", got.Value)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.SetOption(ctx, domain.OptionNotice, ""))
		got, err := s.GetOption(ctx, domain.OptionNotice)
		require.NoError(t, err)
		assert.Equal(t, "", got.Value)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.SetOption(t.Context(), "  ", "x"), store.ErrInvalidKey)
	})

	t.Run("ListSortedByKey", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		for _, key := range []string{domain.OptionSystemName, domain.OptionAbout, domain.OptionLogo, domain.OptionDocsLink} {
			require.NoError(t, s.SetOption(ctx, key, key+"-value"))
		}

		list, err := s.ListOptions(ctx)
		require.NoError(t, err)

		keys := make([]string, len(list))
		for i, o := range list {
			keys[i] = o.Key
			assert.Equal(t, o.Key+"-value", o.Value)
		}
		assert.Equal(t, []string{domain.OptionAbout, domain.OptionDocsLink, domain.OptionLogo, domain.OptionSystemName}, keys)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		s := newStore(t)
		list, err := s.ListOptions(t.Context())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.SetOption(ctx, domain.OptionLogo, "/logo.png"))
		require.NoError(t, s.DeleteOption(ctx, domain.OptionLogo))

		_, err := s.GetOption(ctx, domain.OptionLogo)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteOption(ctx, domain.OptionLogo), store.ErrNotFound)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := s.SetOption(ctx, domain.OptionFooter, "x")
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	})

	t.Run("ConcurrentWriters", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		var wg sync.WaitGroup
		for _, key := range domain.OptionKeys() {
			wg.Go(func() {
				assert.NoError(t, s.SetOption(ctx, key, "v"))
			})
		}
		wg.Wait()

		list, err := s.ListOptions(ctx)
		require.NoError(t, err)
		assert.Len(t, list, len(domain.OptionKeys()))
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(t.Context()))
	})
}
