package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/parley/pkg/log"
)

type EngineConfig struct {
	Model string `env:"ENGINE_MODEL" envDefault:"claude-3-7-sonnet-latest"`

	// Tool capability names the engine is allowed to use for a turn.
	// Empty by default: the agent answers from the transcript only.
	AllowedTools []string `env:"ENGINE_ALLOWED_TOOLS"`

	SettingsSource string `env:"ENGINE_SETTINGS_SOURCE"`
}

func NewEngineConfig(ctx context.Context) *EngineConfig {
	c := &EngineConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Engine config")
	}
	return c
}
