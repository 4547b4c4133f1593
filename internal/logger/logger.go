package logger

import (
	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/config"
)

// New builds the process logger for the configured environment: structured
// JSON at info level when deployed, human-readable console output with debug
// level for local runs.
func New(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Env {
	case "prod", "production":
		return zap.NewProduction()
	default: // local, dev
		return zap.NewDevelopment()
	}
}
