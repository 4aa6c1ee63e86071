package providers

import (
	"github.com/samber/do/v2"

	"github.com/diaryhq/diary-server/internal/auth"
	"github.com/diaryhq/diary-server/internal/config"
	"github.com/diaryhq/diary-server/internal/logger"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey resolves the token key from configuration, falling back to
// the key file in the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.ResolveKey(cfg.Auth.AccessTokenKey, cfg.App.DataDir)
	if err != nil {
		return nil, err
	}

	log.Info("Authentication key loaded",
		"from_config", cfg.Auth.AccessTokenKey != "",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}
