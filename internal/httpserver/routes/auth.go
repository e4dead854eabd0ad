package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	if d.Auth == nil {
		return
	}
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.With(writes(d)).Post("/api/auth/register", handlers.Register(d))
	api.With(writes(d)).Post("/api/auth/sign-in", handlers.SignIn(d))
	api.Post("/api/auth/sign-out", handlers.SignOut(d))
	api.Get("/api/auth/me", handlers.Me(d))
}
