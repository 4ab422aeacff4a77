// Package logging builds the zap logger used across doorshop
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/infrastructure/config"
)

// NewLogger creates a structured logger from configuration. Unknown levels
// fall back to info.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	logger, err := zapConfig.Build(zap.Fields(zap.String("service", "doorshop")))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
