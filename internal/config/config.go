package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort    string `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`

	// TokenSecret signs session tokens. Mandatory in production.
	TokenSecret string `env:"TOKEN_SECRET"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Production() && c.TokenSecret == "" {
		return errors.New("config: TOKEN_SECRET is required in production")
	}
	return nil
}

// Production reports whether the service runs with production hardening
// (Secure cookies, mandatory signing secret).
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// RedirectURL builds the exact callback URL registered with the provider.
func (c Config) RedirectURL(provider string) string {
	return c.AppBaseURL + "/api/auth/" + provider + "/callback"
}
