package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	mountCatalog(api, d, d.Apps)
	mountCatalog(api, d, d.Workflows)
	mountCatalog(api, d, d.Repos)
	mountCatalog(api, d, d.MCPs)
}

func mountCatalog[T domain.Item[T]](r chi.Router, d deps.Deps, svc *catalog.Service[T]) {
	if svc == nil {
		return
	}
	h := handlers.NewCatalog(svc, d)

	r.Route("/api/"+string(svc.Kind()), func(r chi.Router) {
		r.Get("/", h.List)
		r.With(writes(d)).Post("/", h.Create)
		r.Get("/featured", h.Featured)
		r.Get("/{id}/related", h.Related)
	})
}
