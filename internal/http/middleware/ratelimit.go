package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/config"
	"github.com/straye-as/chirps-api/internal/domain"
	"go.uber.org/zap"
)

const rateWindow = time.Minute

// RateLimiter keeps three independent buckets: anonymous traffic per client IP,
// signed-in traffic per user, and content writes (chirps, comments, reactions) per user.
type RateLimiter struct {
	enabled bool
	logger  *zap.Logger

	anonymous func(http.Handler) http.Handler
	member    func(http.Handler) http.Handler
	writes    func(http.Handler) http.Handler

	exemptIPs      map[string]struct{}
	exemptPaths    map[string]struct{}
	exemptPrefixes []string
}

// NewRateLimiter builds the limiter buckets from cfg
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		enabled:     cfg.Enabled,
		logger:      logger,
		exemptIPs:   make(map[string]struct{}, len(cfg.WhitelistIPs)),
		exemptPaths: make(map[string]struct{}, len(cfg.WhitelistPaths)),
	}
	for _, ip := range cfg.WhitelistIPs {
		rl.exemptIPs[ip] = struct{}{}
	}
	for _, p := range cfg.WhitelistPaths {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			rl.exemptPrefixes = append(rl.exemptPrefixes, prefix)
			continue
		}
		rl.exemptPaths[p] = struct{}{}
	}

	rl.anonymous = rl.bucket(cfg.RequestsPerMinute, func(r *http.Request) (string, error) {
		return clientIP(r), nil
	})
	rl.member = rl.bucket(cfg.RequestsPerMinuteAuth, principalKey("req"))
	if cfg.WritesPerMinute > 0 {
		rl.writes = rl.bucket(cfg.WritesPerMinute, principalKey("write"))
	}

	logger.Info("Rate limiter initialized",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("anonymous_per_minute", cfg.RequestsPerMinute),
		zap.Int("user_per_minute", cfg.RequestsPerMinuteAuth),
		zap.Int("writes_per_minute", cfg.WritesPerMinute),
		zap.Int("exempt_ips", len(cfg.WhitelistIPs)),
	)
	return rl
}

func (rl *RateLimiter) bucket(limit int, key httprate.KeyFunc) func(http.Handler) http.Handler {
	return httprate.Limit(limit, rateWindow,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(rl.reject),
	)
}

// principalKey keys signed-in requests by user; API key calls share the "system" bucket.
// Anonymous requests fall back to the client IP.
func principalKey(scope string) httprate.KeyFunc {
	return func(r *http.Request) (string, error) {
		userCtx, ok := auth.FromContext(r.Context())
		switch {
		case !ok || userCtx == nil:
			return scope + ":ip:" + clientIP(r), nil
		case userCtx.IsSystem:
			return scope + ":system", nil
		default:
			return scope + ":user:" + userCtx.UserID.String(), nil
		}
	}
}

// LimitByIP throttles by client IP. It runs before authentication.
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	return rl.guard(rl.anonymous, next)
}

// Limit throttles signed-in requests per user and anonymous ones per IP
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	byUser, byIP := rl.member(next), rl.anonymous(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		if userCtx, ok := auth.FromContext(r.Context()); ok && userCtx != nil {
			byUser.ServeHTTP(w, r)
			return
		}
		byIP.ServeHTTP(w, r)
	})
}

// LimitWrites applies the stricter per-user budget for creating content.
// It is a no-op when WritesPerMinute is zero.
func (rl *RateLimiter) LimitWrites(next http.Handler) http.Handler {
	if rl.writes == nil {
		return next
	}
	return rl.guard(rl.writes, next)
}

func (rl *RateLimiter) guard(limiter func(http.Handler) http.Handler, next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	limited := limiter(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request) bool {
	if _, ok := rl.exemptIPs[clientIP(r)]; ok {
		return true
	}
	if _, ok := rl.exemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range rl.exemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket address
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) reject(w http.ResponseWriter, r *http.Request) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("client_ip", clientIP(r)),
	}
	if userCtx, ok := auth.FromContext(r.Context()); ok && userCtx != nil {
		fields = append(fields, zap.String("user_id", userCtx.UserID.String()))
	}
	rl.logger.Warn("rate limit exceeded", fields...)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Error:   "rate limit exceeded",
		Message: "Too many requests. Please try again later.",
	})
}
