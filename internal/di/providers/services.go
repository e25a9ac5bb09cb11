package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-console/internal/config"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/service"
	"github.com/listenupapp/listenup-console/internal/validation"
)

// ProvideValidator provides the request and document validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideStatusService provides the cached public status.
func ProvideStatusService(i do.Injector) (*service.StatusService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatusService(storeHandle.OptionStore, cfg.App.Version, log.Component("status")), nil
}

// ProvideOptionService provides the option service. Saves invalidate the
// status cache and are broadcast over SSE.
func ProvideOptionService(i do.Injector) (*service.OptionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	status := do.MustInvoke[*service.StatusService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewOptionService(storeHandle.OptionStore, validator, sseHandle.Manager, status, log.Component("options")), nil
}

// ProvideNavigationService provides header link resolution.
func ProvideNavigationService(i do.Injector) (*service.NavigationService, error) {
	options := do.MustInvoke[*service.OptionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNavigationService(options, log.Component("nav")), nil
}
