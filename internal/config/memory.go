package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/parley/pkg/log"
)

type MemoryConfig struct {
	// MemoryID names the logical conversation store. When empty the
	// store degrades: reads return no history and writes are dropped
	// with a warning, so the agent still answers without memory.
	MemoryID string `env:"AGENT_MEMORY_ID"`
}

func NewMemoryConfig(ctx context.Context) *MemoryConfig {
	c := &MemoryConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Memory config")
	}
	return c
}

func (c MemoryConfig) IsConfigured() bool {
	return c.MemoryID != ""
}
