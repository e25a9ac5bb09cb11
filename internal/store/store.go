package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/listenup-console/internal/domain"
)

const optionPrefix = "option:"

// record is the badger value stored for an option.
type record struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps options in an embedded Badger database under option:<key>.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ OptionStore = (*Store)(nil)

// New opens (or creates) the Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's own logging is noisy
	opts.SyncWrites = true       // an acknowledged save must survive a crash
	opts.CompactL0OnClose = true // faster next startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger option store opened", "path", path)
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing badger option store")
	}
	return s.db.Close()
}

// Ping reports whether the database accepts reads.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrUnavailable
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// GetOption retrieves the option stored under key.
func (s *Store) GetOption(ctx context.Context, key string) (*domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(optionKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get option %s: %w", key, err)
	}

	return &domain.Option{Key: key, Value: rec.Value, UpdatedAt: rec.UpdatedAt}, nil
}

// SetOption stores value under key, replacing any previous value.
func (s *Store) SetOption(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckKey(key); err != nil {
		return err
	}

	data, err := json.Marshal(record{Value: value, UpdatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal option %s: %w", key, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(optionKey(key), data)
	})
}

// ListOptions returns all options ordered by key. Badger iterates keys in
// byte order, which is the same order as sorting the option keys.
func (s *Store) ListOptions(ctx context.Context) ([]*domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var options []*domain.Option
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(optionPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), optionPrefix)

			var rec record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode option %s: %w", key, err)
			}
			options = append(options, &domain.Option{Key: key, Value: rec.Value, UpdatedAt: rec.UpdatedAt})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}

// DeleteOption removes the option stored under key.
func (s *Store) DeleteOption(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(optionKey(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(optionKey(key))
	})
}

func optionKey(key string) []byte {
	return []byte(optionPrefix + key)
}
