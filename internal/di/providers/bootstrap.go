package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-console/internal/config"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/seed"
	"github.com/listenupapp/listenup-console/internal/service"
)

// Bootstrap records what the startup seed applied.
type Bootstrap struct {
	Seeded *seed.Result
}

// ProvideBootstrap applies the configured seed file to keys that have never
// been saved. Operator edits are never overwritten at startup.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	options := do.MustInvoke[*service.OptionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Seed.Path == "" {
		return &Bootstrap{}, nil
	}

	values, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	result, err := seed.NewApplier(storeHandle.OptionStore, options, log.Component("seed")).ApplyMissing(ctx, values)
	if err != nil {
		return nil, err
	}

	log.Info("Seed applied",
		"path", cfg.Seed.Path,
		"applied", len(result.Applied),
		"skipped", len(result.Skipped),
	)

	return &Bootstrap{Seeded: result}, nil
}
