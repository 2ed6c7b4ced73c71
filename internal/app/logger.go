package app

import (
	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/logger"
)

// InitializeLogger initializes the JSON logger from configuration.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
