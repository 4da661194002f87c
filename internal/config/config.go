package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Budgie"`
		Host string `envconfig:"HOST" default:"127.0.0.1"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	CORS struct {
		Origins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	}

	Storage struct {
		Backend string `envconfig:"STORAGE_BACKEND" default:"sqlite"`
		// Path is the database file for sqlite and the directory for file.
		Path string `envconfig:"STORAGE_PATH" default:"./data/budgie.db"`
		Key  string `envconfig:"STORAGE_KEY" default:"expense-tracker-state"`
	}

	Undo struct {
		Window time.Duration `envconfig:"UNDO_WINDOW" default:"5s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		File   string `envconfig:"LOG_FILE"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

// Addr is the listen address of the HTTP adapter.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Undo.Window <= 0 {
		return nil, fmt.Errorf("undo window must be positive, got %s", cfg.Undo.Window)
	}

	return &cfg, nil
}
