// Package postgres implements the option store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/listenupapp/listenup-console/internal/domain"
	"github.com/listenupapp/listenup-console/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS options (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store provides Postgres-backed option persistence.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ store.OptionStore = (*Store)(nil)

// Open connects to databaseURL, verifies the connection and applies the schema.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("Postgres option store opened", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	}

	return &Store{pool: pool, logger: logger}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks that a connection can be acquired.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return store.ErrUnavailable.WithCause(err)
	}
	return nil
}

// GetOption returns store.ErrNotFound if the key does not exist.
func (s *Store) GetOption(ctx context.Context, key string) (*domain.Option, error) {
	o := domain.Option{Key: key}
	err := s.pool.QueryRow(ctx,
		`SELECT value, updated_at FROM options WHERE key = $1`, key).Scan(&o.Value, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get option %s: %w", key, err)
	}
	return &o, nil
}

// SetOption creates the key or replaces its value.
func (s *Store) SetOption(ctx context.Context, key, value string) error {
	if err := store.CheckKey(key); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO options (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("set option %s: %w", key, err)
	}
	return nil
}

// ListOptions returns all options ordered by key. COLLATE "C" keeps the
// byte order the other backends use.
func (s *Store) ListOptions(ctx context.Context) ([]*domain.Option, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value, updated_at FROM options ORDER BY key COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}

	options, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Option, error) {
		var o domain.Option
		err := row.Scan(&o.Key, &o.Value, &o.UpdatedAt)
		return &o, err
	})
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	return options, nil
}

// DeleteOption returns store.ErrNotFound if the key does not exist.
func (s *Store) DeleteOption(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM options WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete option %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
