package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/memory"
	"github.com/sandevgo/parley/internal/providers/engine"
	"github.com/sandevgo/parley/internal/service/conversation"
	"github.com/sandevgo/parley/internal/storage/sqlite"
	"github.com/sandevgo/parley/internal/transport/httpapi"
	"github.com/sandevgo/parley/pkg/log"
	"github.com/sandevgo/parley/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	memCfg := config.NewMemoryConfig(ctx)
	engCfg := config.NewEngineConfig(ctx)

	if !memCfg.IsConfigured() {
		logger.Warn().Msg("AGENT_MEMORY_ID is not set, conversations will not be remembered")
	}

	// 2. Event store
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	store := memory.NewStore(memCfg, sqlite.NewEventsRepo(db))

	// 3. Execution engine
	eng := engine.NewAnthropic(engCfg)

	// 4. Conversation controller
	ctrl := conversation.NewController(
		appCfg,
		engCfg,
		store,
		eng,
		memory.NewSysPrompt(appCfg.GetSystemPath()),
	)

	// 5. HTTP transport
	services = append(services, httpapi.NewServer(appCfg, ctrl))

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
