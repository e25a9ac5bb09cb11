package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-console/internal/auth"
	"github.com/listenupapp/listenup-console/internal/config"
	"github.com/listenupapp/listenup-console/internal/logger"
)

// AuthKey wraps the token signing key.
type AuthKey []byte

// ProvideAuthKey loads or generates the token signing key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Store.DataPath)
	if err != nil {
		return nil, err
	}
	cfg.Auth.TokenKey = key

	log.Info("Token key loaded", "token_duration", cfg.Auth.TokenDuration)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO admin token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(key, cfg.Auth.TokenDuration)
}
