package logger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/config"
	"github.com/straye-as/chirps-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Level(t *testing.T) {
	log, err := logger.NewLogger(&config.LoggingConfig{Level: "warn", Format: "console"}, &config.AppConfig{Name: "Chirps API"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := logger.NewLogger(&config.LoggingConfig{Level: "chatty", Format: "json"}, &config.AppConfig{Environment: "production"})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestWithPrincipal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	userID := uuid.New()

	logger.WithPrincipal(base, &auth.UserContext{UserID: userID, DisplayName: "Alice"}).Info("user")
	logger.WithPrincipal(base, auth.NewSystemContext()).Info("system")
	logger.WithPrincipal(base, nil).Info("anonymous")

	entries := logs.All()
	require.Len(t, entries, 3)

	user := entries[0].ContextMap()
	assert.Equal(t, userID.String(), user["user_id"])
	assert.Equal(t, "Alice", user["user_name"])

	system := entries[1].ContextMap()
	assert.Equal(t, "system", system["principal"])
	assert.NotContains(t, system, "user_id")

	assert.Empty(t, entries[2].Context)
}

func TestWithRequestAndJob(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	logger.WithRequest(base, "POST", "/api/v1/chirps", "req-1").Info("request")
	logger.WithJob(base, "notification-purge").Info("job")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"method": "POST", "path": "/api/v1/chirps", "request_id": "req-1"}, entries[0].ContextMap())
	assert.Equal(t, "notification-purge", entries[1].ContextMap()["job_name"])
}
