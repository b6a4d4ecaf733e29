package logger

import (
	"go.uber.org/zap"

	"scrollkeeper-service/internal/config"
)

// New builds the process logger; production config gets JSON output.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
