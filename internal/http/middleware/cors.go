package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/straye-as/chirps-api/internal/config"
	"go.uber.org/zap"
)

func anyOrigin(_ *http.Request, origin string) bool { return origin != "" }

func noOrigin(*http.Request, string) bool { return false }

// CORS returns the cross-origin middleware for the browser client.
//
// Origins resolve as follows: an explicit list is used as is, a "*" entry
// reflects any origin, and an empty list reflects any origin in development
// but rejects all of them elsewhere.
func CORS(cfg *config.CORSConfig, app *config.AppConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	env := zap.String("environment", app.Environment)
	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !app.IsDevelopment() {
			logger.Warn("CORS allows any origin outside development", env)
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins configured", zap.Strings("origins", cfg.AllowedOrigins))
	case app.IsDevelopment():
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS allows any origin in development", env)
	default:
		// go-chi/cors treats an empty AllowedOrigins as "*"
		options.AllowOriginFunc = noOrigin
		logger.Warn("CORS has no allowed origins, cross-origin requests are rejected", env)
	}

	return cors.Handler(options)
}
