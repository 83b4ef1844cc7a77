package middleware

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/logger"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by Logging
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Hijack lets websocket upgrades pass through the wrapper
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Logging middleware logs HTTP requests
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 64 {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			ctx, authenticatedUser := auth.TrackUser(ctx)

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r.WithContext(ctx))

			duration := time.Since(start)

			reqLog := logger.WithRequest(log, r.Method, r.URL.Path, requestID)
			if userCtx, ok := authenticatedUser(); ok {
				reqLog = logger.WithPrincipal(reqLog, userCtx)
			}

			fields := []zap.Field{
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			}

			msg := fmt.Sprintf("%s %-30s -> %3d (%s)",
				r.Method,
				r.URL.Path,
				rw.statusCode,
				duration.Truncate(time.Microsecond),
			)

			switch {
			case rw.statusCode >= 500:
				reqLog.Error(msg, fields...)
			case rw.statusCode >= 400:
				reqLog.Warn(msg, fields...)
			default:
				reqLog.Info(msg, fields...)
			}
		})
	}
}
