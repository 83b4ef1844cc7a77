package logger

import (
	"fmt"

	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger.
// Production or Format "json" selects the JSON encoder, anything else a
// colored console. Unknown levels fall back to info.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	log, err := zapCfg.Build(zap.Fields(
		zap.String("app", appCfg.Name),
		zap.String("environment", appCfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func parseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// WithRequest tags log with the request line and id
func WithRequest(log *zap.Logger, method, path, requestID string) *zap.Logger {
	return log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}

// WithPrincipal tags log with the caller: the user id and display name, or
// principal=system for API key requests. A nil principal leaves log untouched.
func WithPrincipal(log *zap.Logger, principal *auth.UserContext) *zap.Logger {
	switch {
	case principal == nil:
		return log
	case principal.IsSystem:
		return log.With(zap.String("principal", "system"))
	default:
		return log.With(
			zap.String("user_id", principal.UserID.String()),
			zap.String("user_name", principal.DisplayName),
		)
	}
}

// WithJob tags log with a background job name
func WithJob(log *zap.Logger, name string) *zap.Logger {
	return log.With(zap.String("job_name", name))
}
