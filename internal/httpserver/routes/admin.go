package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
)

func init() { Register(registerAdmin) }

// The seed handler answers every method itself so GET gets a JSON 405.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.HandleFunc("/api/admin/seed", handlers.Seed(d))
}
