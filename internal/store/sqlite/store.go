// Package sqlite implements the option store on SQLite, the default backend.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/listenup-console/internal/domain"
	"github.com/listenupapp/listenup-console/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed option persistence.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.OptionStore = (*Store)(nil)

// Open creates or opens the database at path, configures WAL and applies
// the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("SQLite option store opened", "path", path)
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return store.ErrUnavailable.WithCause(err)
	}
	return nil
}

// GetOption returns store.ErrNotFound if the key does not exist.
func (s *Store) GetOption(ctx context.Context, key string) (*domain.Option, error) {
	var value, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM options WHERE key = ?`, key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get option %s: %w", key, err)
	}

	t, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("option %s updated_at: %w", key, err)
	}
	return &domain.Option{Key: key, Value: value, UpdatedAt: t}, nil
}

// SetOption creates the key or replaces its value.
func (s *Store) SetOption(ctx context.Context, key, value string) error {
	if err := store.CheckKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO options (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("set option %s: %w", key, err)
	}
	return nil
}

// ListOptions returns all options ordered by key.
func (s *Store) ListOptions(ctx context.Context) ([]*domain.Option, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM options ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	var options []*domain.Option
	for rows.Next() {
		var o domain.Option
		var updatedAt string
		if err := rows.Scan(&o.Key, &o.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("option %s updated_at: %w", o.Key, err)
		}
		options = append(options, &o)
	}
	return options, rows.Err()
}

// DeleteOption returns store.ErrNotFound if the key does not exist.
func (s *Store) DeleteOption(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM options WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete option %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete option %s: %w", key, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
