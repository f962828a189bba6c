package auth

import (
	"time"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/config"
)

// Config holds auth configuration
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// ConfigFrom maps the JWT section of the service config.
func ConfigFrom(cfg config.JWTConfig) Config {
	return Config{
		Secret:   cfg.Secret,
		Issuer:   cfg.Issuer,
		TokenTTL: cfg.TokenTTL,
	}
}
