package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/straye-as/chirps-api/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator turns a bearer token into a user context
type TokenValidator interface {
	ValidateToken(token string) (*UserContext, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	validator TokenValidator
	apiKey    string
	logger    *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(validator TokenValidator, apiKey string, logger *zap.Logger) *Middleware {
	return &Middleware{
		validator: validator,
		apiKey:    apiKey,
		logger:    logger,
	}
}

// Authenticate is the main authentication middleware.
// It accepts the admin API key, an Authorization bearer token, or a token query
// parameter (browsers cannot set headers on websocket upgrades).
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Try API key first
		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if !m.validateAPIKey(apiKey) {
				m.logger.Warn("invalid API key attempt",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeAuthError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			userCtx := NewSystemContext()
			m.logger.Debug("request authenticated",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("auth_type", "api_key"),
				zap.Duration("auth_duration", time.Since(start)),
			)
			next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Missing or malformed authorization header")
			return
		}

		userCtx, err := m.validator.ValidateToken(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			writeAuthError(w, http.StatusUnauthorized, err.Error())
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("auth_type", "jwt"),
			zap.String("user_id", userCtx.UserID.String()),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// RequireUser rejects requests that are not made on behalf of a user account
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if userCtx.IsSystem {
			writeAuthError(w, http.StatusForbidden, "This endpoint requires a user account")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSystem only lets the API key principal through
func (m *Middleware) RequireSystem(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !userCtx.IsSystem {
			writeAuthError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func bearerToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}

func writeAuthError(w http.ResponseWriter, status int, detail string) {
	errType := domain.ErrorTypeUnauthorized
	if status == http.StatusForbidden {
		errType = domain.ErrorTypeForbidden
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   errType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
