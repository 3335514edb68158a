package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/shelfwise/shelfwise-server/internal/auth"
	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/logger"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey derives the token key from TOKEN_SECRET, or loads or
// generates <data>/auth.key when no secret is configured.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenSecret != "" {
		key, err := auth.KeyFromSecret(cfg.Auth.TokenSecret)
		if err != nil {
			return nil, err
		}
		log.Info("Authentication key derived from secret", "token_ttl", cfg.Auth.TokenTTL)
		return AuthKey(key), nil
	}

	if err := os.MkdirAll(cfg.Data.Path, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	key, err := auth.LoadOrGenerateKey(cfg.Data.Path)
	if err != nil {
		return nil, err
	}

	log.Info("Authentication key loaded", "data_path", cfg.Data.Path, "token_ttl", cfg.Auth.TokenTTL)
	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(authKey, cfg.Auth.TokenTTL)
}
