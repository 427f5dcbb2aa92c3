package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"3001" validate:"required"`
	AppEnv string `env:"APP_ENV" envDefault:"production" validate:"required,oneof=development production test"`

	CatalogSource string `env:"CATALOG_SOURCE" envDefault:"file" validate:"required,oneof=file postgres"`
	CatalogPath   string `env:"CATALOG_PATH" envDefault:"data/products.json" validate:"required_if=CatalogSource file"`
	DatabaseURL   string `env:"DATABASE_URL" validate:"required_if=CatalogSource postgres"`
	DBMaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"4" validate:"gte=1,lte=100"`

	CacheProvider         string        `env:"CATALOG_CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	CacheTTL              time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"0s"`
	RedisConnectionString string        `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	SentryDSN              string  `env:"SENTRY_DSN" validate:"omitempty,url"`
	SentryTracesSampleRate float64 `env:"SENTRY_TRACES_SAMPLE_RATE" envDefault:"0" validate:"gte=0,lte=1"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	LogFile   string     `env:"LOG_FILE"`
}

var configValidator = validator.New()

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// CachingEnabled reports whether catalog snapshots are cached between reads.
func (c *Config) CachingEnabled() bool {
	return c.CacheTTL > 0
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must not be negative")
	}

	if c.CatalogSource == SourceFile {
		switch strings.ToLower(filepath.Ext(c.CatalogPath)) {
		case ".json", ".yaml", ".yml":
		default:
			return fmt.Errorf("CATALOG_PATH must point to a .json, .yaml or .yml file")
		}
	}

	for _, origin := range c.CORSAllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS must not contain empty entries")
		}
	}

	return nil
}

// ClientConfig configures catalogctl and other API consumers.
type ClientConfig struct {
	APIURL     string        `env:"CATALOG_API_URL" envDefault:"http://localhost:3001" validate:"required,url"`
	APITimeout time.Duration `env:"CATALOG_API_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"WARN"`
}

func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse client config: %w", err)
	}
	if err := configValidator.Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
