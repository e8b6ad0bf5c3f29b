package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkloftapp/linkloft-server/internal/config"
	"github.com/linkloftapp/linkloft-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Linkloft Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.Database.DataDir,
	)

	return log, nil
}
