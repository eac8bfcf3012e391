package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	API       APIConfig       `envPrefix:"STOREFRONT_API_"`
	Session   SessionConfig   `envPrefix:"STOREFRONT_SESSION_"`
	Log       LogConfig       `envPrefix:"STOREFRONT_LOG_"`
	Telemetry TelemetryConfig `envPrefix:"STOREFRONT_"`
	DevServer DevServerConfig `envPrefix:"DEVSERVER_"`
}

type APIConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type SessionConfig struct {
	Backend   string `env:"BACKEND" envDefault:"file"`
	File      string `env:"FILE"`
	RedisURL  string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"storefront:session:"`
	// how often the stored token is checked for expiry while the client runs
	CheckInterval time.Duration `env:"CHECK_INTERVAL" envDefault:"30s"`
}

type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"7"`
}

type TelemetryConfig struct {
	MetricsAddr string `env:"METRICS_ADDR"`
	Tracing     bool   `env:"TRACING" envDefault:"false"`
}

type DevServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":5000"`
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"dev-secret-key"`
	JWTExpiration   time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	AdminName       string        `env:"ADMIN_NAME" envDefault:"Admin"`
	AdminEmail      string        `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword   string        `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file from the working directory, then the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.Session.File == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		c.Session.File = filepath.Join(dir, "storefront", "session.json")
	}
	if c.Log.File == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("resolve cache dir: %w", err)
		}
		c.Log.File = filepath.Join(dir, "storefront", "storefront.log")
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}
	return nil
}
