package cmd

import (
	"github.com/lexdesk/lexdesk/internal/app"
	"github.com/lexdesk/lexdesk/internal/config"
	"github.com/lexdesk/lexdesk/internal/logger"
)

// loadConfig reads the environment and initializes logging.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	return cfg
}

// openApp loads config and opens the migrated database and storage.
func openApp() (*app.App, error) {
	return app.New(loadConfig())
}
