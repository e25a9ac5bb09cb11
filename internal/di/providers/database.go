package providers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-console/internal/config"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/sse"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/store/postgres"
	"github.com/listenupapp/listenup-console/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the option event stream.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Component("sse"))

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the configured option store with shutdown capability.
type StoreHandle struct {
	store.OptionStore
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the backend selected by cfg.Store.Backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		st       store.OptionStore
		location string
		err      error
	)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		location = filepath.Join(cfg.Store.DataPath, "console.db")
		st, err = sqlite.Open(location, log.Component("store"))
	case config.BackendBadger:
		location = filepath.Join(cfg.Store.DataPath, "options")
		st, err = store.New(location, log.Component("store"))
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		st, err = postgres.Open(ctx, cfg.Store.DatabaseURL, log.Component("store"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	log.Info("Option store opened", "backend", cfg.Store.Backend, "location", location)
	return &StoreHandle{OptionStore: st}, nil
}
