package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	if d.Bookmarks == nil {
		return
	}
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/bookmarks", handlers.ListBookmarks(d))
	api.With(writes(d)).Post("/api/bookmarks", handlers.AddBookmark(d))
	api.Delete("/api/bookmarks", handlers.RemoveBookmark(d))
}
