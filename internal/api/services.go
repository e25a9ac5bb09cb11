package api

import (
	"github.com/listenupapp/listenup-console/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Options    *service.OptionService
	Status     *service.StatusService
	Navigation *service.NavigationService
}
