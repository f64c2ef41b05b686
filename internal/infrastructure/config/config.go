package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
}

// AuthConfig carries the token signing material and lifetimes. The access
// and refresh secrets are independent: leaking one must not allow forging
// the other kind of token.
type AuthConfig struct {
	AccessSecret      string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshSecret     string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTTL         time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL        time.Duration `env:"REFRESH_TOKEN_TTL, default=720h"`
	LegacyEmailDomain string        `env:"LEGACY_EMAIL_DOMAIN, default=temp.ecoride.com"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecoride"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if cfg.Auth.AccessSecret == cfg.Auth.RefreshSecret {
		return nil, fmt.Errorf("config: access and refresh token secrets must differ")
	}
	return &cfg, nil
}
