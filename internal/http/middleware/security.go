package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/straye-as/chirps-api/internal/config"
)

// swaggerPrefix is served without a Content-Security-Policy; the UI relies on inline scripts
const swaggerPrefix = "/swagger/"

type header struct{ name, value string }

// securityHeaders renders the configured response headers once; empty values are skipped
func securityHeaders(cfg *config.SecurityConfig) []header {
	var hs []header
	add := func(name, value string) {
		if value != "" {
			hs = append(hs, header{name, value})
		}
	}

	if cfg.ContentTypeNosniff {
		add("X-Content-Type-Options", "nosniff")
	}
	add("X-Frame-Options", cfg.FrameOptions)
	add("X-XSS-Protection", cfg.XSSProtection)
	add("Referrer-Policy", cfg.ReferrerPolicy)
	add("Permissions-Policy", cfg.PermissionsPolicy)
	if cfg.EnableHSTS {
		hsts := []string{"max-age=" + strconv.Itoa(cfg.HSTSMaxAge)}
		if cfg.HSTSIncludeSubdomains {
			hsts = append(hsts, "includeSubDomains")
		}
		if cfg.HSTSPreload {
			hsts = append(hsts, "preload")
		}
		add("Strict-Transport-Security", strings.Join(hsts, "; "))
	}
	return hs
}

// SecurityHeaders sets the configured security headers on every response
// and strips headers that identify the server
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	static := securityHeaders(cfg)
	csp := cfg.ContentSecurityPolicy

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, sh := range static {
				h.Set(sh.name, sh.value)
			}
			if csp != "" && !strings.HasPrefix(r.URL.Path, swaggerPrefix) {
				h.Set("Content-Security-Policy", csp)
			}
			h.Del("X-Powered-By")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}
