package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	operator := r.With(mw.OperatorOnly(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	operator.Get("/readyz", handlers.Readyz(d))
	if d.Metrics != nil {
		operator.Method("GET", "/metrics", d.Metrics.Handler())
	}
}
