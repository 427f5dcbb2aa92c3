package handlers

import (
	"net/http"
	"strings"

	"github.com/catalogd/catalogd/internal/observability"
)

const (
	corsAllowedMethods = "GET, OPTIONS"
	corsAllowedHeaders = "Content-Type, Accept, X-Request-ID"
	corsMaxAge         = "600"
)

// SecurityHeaders sets baseline security headers for all responses.
func (h *Handlers) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		headers.Set("Cross-Origin-Resource-Policy", "cross-origin")
		headers.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}

// CORS answers preflight requests and marks responses readable by the allowed origins.
// It wraps the whole router so unmatched routes and methods get the headers too.
func (h *Handlers) CORS(next http.Handler) http.Handler {
	allowAny, allowed := corsOrigins(h.config.CORSAllowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		headers := w.Header()
		headers.Add("Vary", "Origin")

		switch {
		case allowAny:
			headers.Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := allowed[strings.ToLower(origin)]; ok {
				headers.Set("Access-Control-Allow-Origin", origin)
			} else if r.Method == http.MethodOptions {
				observability.Catalog(r.Context()).CORSBlocked(origin)
				h.loggerFromContext(r.Context()).Warn("blocked preflight from unknown origin", "origin", origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			headers.Set("Access-Control-Allow-Methods", corsAllowedMethods)
			headers.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			headers.Set("Access-Control-Max-Age", corsMaxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsOrigins(origins []string) (bool, map[string]struct{}) {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		if origin == "*" {
			return true, nil
		}
		if origin != "" {
			allowed[strings.TrimSuffix(origin, "/")] = struct{}{}
		}
	}
	return false, allowed
}
