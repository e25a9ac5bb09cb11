package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/listenup-console/internal/domain"
	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
	"github.com/listenupapp/listenup-console/internal/sse"
	"github.com/listenupapp/listenup-console/internal/store"
	"github.com/listenupapp/listenup-console/internal/validation"
)

// Invalidator drops cached state derived from options.
type Invalidator interface {
	Invalidate()
}

// document is an option value with a typed schema.
type document interface {
	validation.Document
	Encode() string
}

// OptionService reads and writes console options.
type OptionService struct {
	store     store.OptionStore
	validator *validation.Validator
	events    EventEmitter
	cache     Invalidator
	logger    *slog.Logger
}

// NewOptionService creates a new option service. cache may be nil.
func NewOptionService(
	store store.OptionStore,
	validator *validation.Validator,
	events EventEmitter,
	cache Invalidator,
	logger *slog.Logger,
) *OptionService {
	if events == nil {
		events = NoopEmitter{}
	}
	return &OptionService{
		store:     store,
		validator: validator,
		events:    events,
		cache:     cache,
		logger:    logger,
	}
}

// Update stores value under key, replacing whatever was there.
// Structured keys must hold a valid document and are stored in canonical
// form; other registered keys are stored verbatim.
func (s *OptionService) Update(ctx context.Context, key, value string) (*domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	def, ok := domain.LookupOption(key)
	if !ok {
		return nil, domainerrors.Validationf("unknown option %q", key)
	}

	stored := value
	if def.Kind == domain.OptionKindDocument {
		doc, err := parseDocument(key, value)
		if err != nil {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeValidation, "%s is not valid JSON", key)
		}
		if err := s.validator.ValidateDocument(doc); err != nil {
			return nil, err
		}
		stored = doc.Encode()
	}

	if err := s.store.SetOption(ctx, key, stored); err != nil {
		return nil, fmt.Errorf("set option %s: %w", key, err)
	}

	s.changed()
	s.events.Emit(sse.NewOptionUpdatedEvent(key, stored))

	s.logger.Info("option updated", "key", key, "size", len(stored))

	return &domain.Option{Key: key, Value: stored, UpdatedAt: time.Now().UTC()}, nil
}

// Get returns the option stored under key. Registered keys that were never
// written report their default value with a zero UpdatedAt.
func (s *OptionService) Get(ctx context.Context, key string) (*domain.Option, error) {
	opt, err := s.store.GetOption(ctx, key)
	if err == nil {
		return opt, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get option %s: %w", key, err)
	}

	def, ok := domain.LookupOption(key)
	if !ok {
		return nil, domainerrors.NotFoundf("option %q not found", key).WithCause(err)
	}
	return &domain.Option{Key: key, Value: def.Default()}, nil
}

// Value returns the stored string for key, or its default.
func (s *OptionService) Value(ctx context.Context, key string) (string, error) {
	opt, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return opt.Value, nil
}

// List returns every stored option sorted by key.
func (s *OptionService) List(ctx context.Context) ([]*domain.Option, error) {
	opts, err := s.store.ListOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	return opts, nil
}

// Reset restores key to its default. Structured keys get their default
// document written back; plain keys are deleted.
func (s *OptionService) Reset(ctx context.Context, key string) (*domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	def, ok := domain.LookupOption(key)
	if !ok {
		return nil, domainerrors.Validationf("unknown option %q", key)
	}

	value := def.Default()
	if def.Kind == domain.OptionKindDocument {
		if err := s.store.SetOption(ctx, key, value); err != nil {
			return nil, fmt.Errorf("reset option %s: %w", key, err)
		}
	} else if err := s.store.DeleteOption(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("reset option %s: %w", key, err)
	}

	s.changed()
	s.events.Emit(sse.NewOptionResetEvent(key, value))

	s.logger.Info("option reset", "key", key)

	return &domain.Option{Key: key, Value: value}, nil
}

// HeaderNavModules returns the stored navigation configuration. A missing
// or unreadable document yields the defaults; parse failures are logged
// and never returned.
func (s *OptionService) HeaderNavModules(ctx context.Context) (*domain.HeaderNavModules, error) {
	raw, found, err := s.stored(ctx, domain.OptionHeaderNavModules)
	if err != nil || !found {
		return domain.DefaultHeaderNavModules(), err
	}

	modules, err := domain.ParseHeaderNavModules(raw)
	if err != nil {
		s.logger.Warn("stored header navigation is unreadable, using defaults", "error", err)
		return domain.DefaultHeaderNavModules(), nil
	}
	return modules, nil
}

// CustomerServiceConfig returns the stored customer service configuration,
// merged over the defaults. Parse failures fall back like HeaderNavModules.
func (s *OptionService) CustomerServiceConfig(ctx context.Context) (*domain.CustomerServiceConfig, error) {
	raw, found, err := s.stored(ctx, domain.OptionCustomerServiceConfig)
	if err != nil || !found {
		return domain.DefaultCustomerServiceConfig(), err
	}

	cfg, err := domain.ParseCustomerServiceConfig(raw)
	if err != nil {
		s.logger.Warn("stored customer service config is unreadable, using defaults", "error", err)
		return domain.DefaultCustomerServiceConfig(), nil
	}
	return cfg, nil
}

func (s *OptionService) stored(ctx context.Context, key string) (string, bool, error) {
	opt, err := s.store.GetOption(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get option %s: %w", key, err)
	}
	return opt.Value, true, nil
}

func (s *OptionService) changed() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func parseDocument(key, raw string) (document, error) {
	var (
		doc document
		err error
	)
	switch key {
	case domain.OptionHeaderNavModules:
		doc, err = domain.ParseHeaderNavModules(raw)
	case domain.OptionCustomerServiceConfig:
		doc, err = domain.ParseCustomerServiceConfig(raw)
	default:
		err = fmt.Errorf("option %s has no document type", key)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
