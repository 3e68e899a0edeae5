package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	ServerPort      string   `env:"SERVER_PORT" envDefault:"8000"`
	StoreDriver     string   `env:"STORE_DRIVER" envDefault:"sqlite"`
	DBPath          string   `env:"DB_PATH" envDefault:"hunter.db"`
	DatabaseURL     string   `env:"DATABASE_URL"`
	DatabaseName    string   `env:"DATABASE_NAME" envDefault:"solo_leveling"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	HunterCacheSize int      `env:"HUNTER_CACHE_SIZE" envDefault:"0"`
	AllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	// the real logger depends on LOG_LEVEL, so startup messages go through a
	// bootstrap one
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("store_driver", cfg.StoreDriver).
		Str("db_path", cfg.DBPath).
		Str("database_name", cfg.DatabaseName).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("hunter_cache_size", cfg.HunterCacheSize).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("configuration loaded")

	return cfg, nil
}

// Parse reads the process environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite store")
		}
	case DriverMongo:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the mongo store")
		}
		if c.DatabaseName == "" {
			return fmt.Errorf("DATABASE_NAME is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.HunterCacheSize < 0 {
		return fmt.Errorf("HUNTER_CACHE_SIZE must be >= 0")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

var Module = fx.Provide(Load)
