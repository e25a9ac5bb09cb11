// Package store defines option persistence for the console and the
// embedded badger backend.
package store

import (
	"context"
	"strings"

	"github.com/listenupapp/listenup-console/internal/domain"
)

// OptionStore persists option values wholesale under string keys.
// Writes replace the previous value; there is no merge or history.
type OptionStore interface {
	// GetOption returns ErrNotFound when key has never been written.
	GetOption(ctx context.Context, key string) (*domain.Option, error)
	// SetOption inserts or replaces the value stored under key.
	SetOption(ctx context.Context, key, value string) error
	// ListOptions returns every stored option sorted by key.
	ListOptions(ctx context.Context) ([]*domain.Option, error)
	// DeleteOption returns ErrNotFound when key has never been written.
	DeleteOption(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// CheckKey rejects keys no backend can store.
func CheckKey(key string) error {
	if strings.TrimSpace(key) == "" || len(key) > 255 {
		return ErrInvalidKey
	}
	return nil
}
