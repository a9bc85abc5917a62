package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Development environments get the console
// encoder; everything else logs JSON. service and env are attached to every entry.
func New(service string, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "development" || env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build(
		zap.Fields(
			zap.String("service", service),
			zap.String("env", env),
		),
	)
}
