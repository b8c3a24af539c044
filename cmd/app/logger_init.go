package main

import (
	"github.com/osse101/ToolForge_Go/internal/config"
	"github.com/osse101/ToolForge_Go/internal/logger"
)

// initLogger installs a stdout-only logger, used when LOG_DIR is empty
func initLogger(cfg *config.Config) {
	addSource := logger.IsDevelopment(cfg.Environment)

	logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	))
}
