// Package providers contains dependency injection providers for the diary server.
package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/diaryhq/diary-server/internal/config"
	"github.com/diaryhq/diary-server/internal/logger"
)

// ProvideConfig provides the application configuration and makes sure the
// data directory exists.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.App.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return cfg, nil
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting diary server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.App.DataDir,
		"database_driver", cfg.Database.Driver,
	)

	return log, nil
}
