package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const minProductionSecretLen = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET, required"`
	CookieName string        `env:"SESSION_COOKIE_NAME, default=internquest.sid"`
	MaxAge     time.Duration `env:"SESSION_MAX_AGE, default=720h"`
}

// StoreConfig selects the credential store backend.
type StoreConfig struct {
	Driver  string        `env:"STORE_DRIVER,  default=mongo"`
	Timeout time.Duration `env:"STORE_TIMEOUT, default=5s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=internquest"`
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the constraints struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	} else if c.IsProduction() && len(c.Session.Secret) < minProductionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes in production", minProductionSecretLen))
	}
	if c.Session.MaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_MAX_AGE must be positive"))
	}
	if c.Store.Timeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}
	switch c.Store.Driver {
	case "mongo":
	case "postgres":
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	if c.Audit.Workers < 1 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be at least 1"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
