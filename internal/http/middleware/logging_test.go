package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging_AssignsRequestID(t *testing.T) {
	var seen string
	handler := middleware.Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generated when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chirps", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("propagated from the client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chirps", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("oversized id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chirps", nil)
		req.Header.Set(middleware.RequestIDHeader, strings.Repeat("x", 65))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Len(t, seen, 36)
	})
}

func TestLogging_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			handler := middleware.Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, int64(tt.status), entries[0].ContextMap()["status_code"])
		})
	}
}

func TestLogging_RecordsAuthenticatedUser(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	userID := uuid.New()

	// the inner handler stands in for the auth middleware
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = auth.WithUserContext(r.Context(), &auth.UserContext{UserID: userID, DisplayName: "Alice"})
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.Logging(zap.New(core))(inner)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, userID.String(), entries[0].ContextMap()["user_id"])
}
