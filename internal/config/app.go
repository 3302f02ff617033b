package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/parley/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"PARLEY_RUNTIME_PATH" envDefault:".parley"`

	// HTTP inbound surface
	Port int `env:"PORT" envDefault:"8080"`

	// How many recent events one turn pulls from the store.
	HistoryWindowSize int `env:"HISTORY_WINDOW_SIZE" envDefault:"20"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetSystemPath() string {
	return filepath.Join(c.RuntimePath, "SYSTEM.md")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "parley.db")
}
