package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/listenupapp/listenup-console/internal/domain"
	"github.com/listenupapp/listenup-console/internal/store"
)

// Status context keys that are not option keys.
const (
	StatusDocsLink   = "docs_link"
	StatusSystemName = "system_name"
	StatusLogo       = "logo"
	StatusVersion    = "version"
	StatusStartTime  = "start_time"
)

// StatusService builds the status context every console page loads.
// The snapshot is cached until an option changes.
type StatusService struct {
	store     store.OptionStore
	logger    *slog.Logger
	version   string
	startTime time.Time

	mu     sync.RWMutex
	cached map[string]any
	// gen counts invalidations so a rebuild racing a save is not cached.
	gen uint64
}

// NewStatusService creates a new status service.
func NewStatusService(store store.OptionStore, version string, logger *slog.Logger) *StatusService {
	return &StatusService{
		store:     store,
		logger:    logger,
		version:   version,
		startTime: time.Now().UTC(),
	}
}

// Status returns the status context. The structured options are JSON
// strings; unset ones carry their encoded defaults. Callers get their own
// copy of the map.
func (s *StatusService) Status(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	cached, gen := s.cached, s.gen
	s.mu.RUnlock()
	if cached != nil {
		return maps.Clone(cached), nil
	}

	status, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cached = status
	}
	s.mu.Unlock()

	return maps.Clone(status), nil
}

// Invalidate drops the cached snapshot.
func (s *StatusService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}

func (s *StatusService) build(ctx context.Context) (map[string]any, error) {
	value := func(key string) (string, error) {
		opt, err := s.store.GetOption(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			def, _ := domain.LookupOption(key)
			return def.Default(), nil
		}
		if err != nil {
			return "", fmt.Errorf("get option %s: %w", key, err)
		}
		return opt.Value, nil
	}

	fields := []struct {
		statusKey string
		optionKey string
	}{
		{domain.OptionHeaderNavModules, domain.OptionHeaderNavModules},
		{domain.OptionCustomerServiceConfig, domain.OptionCustomerServiceConfig},
		{StatusDocsLink, domain.OptionDocsLink},
		{StatusSystemName, domain.OptionSystemName},
		{StatusLogo, domain.OptionLogo},
	}

	status := make(map[string]any, len(fields)+2)
	for _, f := range fields {
		v, err := value(f.optionKey)
		if err != nil {
			return nil, err
		}
		status[f.statusKey] = v
	}
	status[StatusVersion] = s.version
	status[StatusStartTime] = s.startTime.Unix()

	s.logger.Debug("status snapshot rebuilt")

	return status, nil
}
