package mw

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

// OperatorOnly keeps the operational surface (/readyz, /metrics) reachable
// from the listed networks only. With no networks configured every caller
// gets through. Rejections answer a JSON 403 and are never cached.
func OperatorOnly(networks []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(networks)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if m.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			log.Debug("operator route refused",
				logger.String("route", route),
				logger.String("client_ip", ip))

			w.Header().Set("Cache-Control", "no-store")
			respond.Error(w, http.StatusForbidden, "FORBIDDEN", "Forbidden")
		})
	}
}
