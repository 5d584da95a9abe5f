// Package config loads service configuration from the environment.
//
// Values are read once at startup: an optional .env file is applied first
// (godotenv), then environment variables are decoded into Config. The rest
// of the service receives the resulting struct explicitly and never calls
// os.Getenv on its own.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvProduction is the ENV value that marks a production deployment.
const EnvProduction = "production"

// DevSigningSecret is the session signing secret used when none is configured
// outside production. Validate refuses it in production.
const DevSigningSecret = "credential-auth-dev-signing-secret"

// ErrMissingSigningSecret is returned by Validate when production runs without SESSION_SECRET.
var ErrMissingSigningSecret = errors.New("SESSION_SECRET is required in production")

// Config is the full service configuration.
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Pages     PagesConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

type ServiceConfig struct {
	Name    string `env:"SERVICE_NAME" envDefault:"credential-auth"`
	Version string `env:"SERVICE_VERSION" envDefault:"dev"`
	Env     string `env:"ENV" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"8080"`
}

type DatabaseConfig struct {
	// Driver selects the account store: "postgres" or "memory".
	Driver      string `env:"DB_DRIVER" envDefault:"postgres"`
	URL         string `env:"DATABASE_URL"`
	MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET"`
	Lifetime   time.Duration `env:"SESSION_LIFETIME" envDefault:"720h"`
	Issuer     string        `env:"SESSION_ISSUER" envDefault:"credential-auth"`
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"session_token"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
}

// PagesConfig holds the redirect targets handed to the frontend.
type PagesConfig struct {
	SignIn  string `env:"PAGE_SIGN_IN" envDefault:"/login"`
	SignOut string `env:"PAGE_SIGN_OUT" envDefault:"/"`
	Error   string `env:"PAGE_ERROR" envDefault:"/login"`
}

type LoggingConfig struct {
	// Level defaults to debug in development and info elsewhere.
	Level string `env:"LOG_LEVEL"`
}

type TracingConfig struct {
	Enabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	Endpoint   string  `env:"OTEL_COLLECTOR_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"0.1"`
}

type ProfilingConfig struct {
	Enabled  bool   `env:"PROFILING_ENABLED" envDefault:"false"`
	Endpoint string `env:"PYROSCOPE_ENDPOINT" envDefault:"http://localhost:4040"`
}

type ShutdownConfig struct {
	Timeout             string `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadinessDrainDelay string `env:"READINESS_DRAIN_DELAY" envDefault:"5s"`
}

// Load reads .env (if present) and the process environment.
// It panics on malformed values, which is only possible at startup.
func Load() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		panic("Configuration load failed: " + err.Error())
	}
	return cfg
}

// Parse decodes the current environment into a Config and applies derived defaults.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Logging.Level == "" {
		if cfg.IsProduction() {
			cfg.Logging.Level = "info"
		} else {
			cfg.Logging.Level = "debug"
		}
	}
	cfg.Session.Secret = strings.TrimSpace(cfg.Session.Secret)
	if cfg.Session.Secret == "" && !cfg.IsProduction() {
		cfg.Session.Secret = DevSigningSecret
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in a production context.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Service.Env, EnvProduction)
}

// Validate checks invariants that must hold before the service starts.
func (c *Config) Validate() error {
	if c.Service.Port == "" {
		return errors.New("PORT must not be empty")
	}

	if strings.TrimSpace(c.Session.Secret) == "" {
		return ErrMissingSigningSecret
	}
	if c.IsProduction() && c.Session.Secret == DevSigningSecret {
		return errors.New("SESSION_SECRET must not use the development fallback in production")
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("SESSION_LIFETIME must be positive, got %s", c.Session.Lifetime)
	}

	switch c.Database.Driver {
	case "memory":
		if c.IsProduction() {
			return errors.New("DB_DRIVER=memory is not allowed in production")
		}
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	if _, err := time.ParseDuration(c.Shutdown.Timeout); err != nil {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if _, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay); err != nil {
		return fmt.Errorf("invalid READINESS_DRAIN_DELAY: %w", err)
	}
	return nil
}

// GetShutdownTimeoutDuration returns the HTTP shutdown timeout.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetReadinessDrainDelayDuration returns how long /ready reports 503 before HTTP shutdown.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay)
	if err != nil {
		return 0
	}
	return d
}
