package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
)

// maxBodyBytes bounds create and auth payloads.
const maxBodyBytes = 1 << 20

// Catalog serves the read and create endpoints of one collection.
type Catalog[T domain.Item[T]] struct {
	svc      *catalog.Service[T]
	d        deps.Deps
	notFound string
}

func NewCatalog[T domain.Item[T]](svc *catalog.Service[T], d deps.Deps) *Catalog[T] {
	return &Catalog[T]{svc: svc, d: d, notFound: svc.Kind().Singular() + " not found"}
}

// List answers GET /api/{kind}. With ?slug= it returns that single item.
func (h *Catalog[T]) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if slug := strings.TrimSpace(q.Get("slug")); slug != "" {
		item, err := h.svc.GetBySlug(r.Context(), slug)
		if err != nil {
			writeError(w, r, h.d, err, h.notFound)
			return
		}
		respond.JSON(w, http.StatusOK, item)
		return
	}

	items, err := h.svc.List(r.Context(), domain.ParamsFrom(q))
	if err != nil {
		writeError(w, r, h.d, err, h.notFound)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// Featured answers GET /api/{kind}/featured.
func (h *Catalog[T]) Featured(w http.ResponseWriter, r *http.Request) {
	limit, err := domain.ParseFeaturedLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, r, h.d, err, h.notFound)
		return
	}
	items, err := h.svc.Featured(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.d, err, h.notFound)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// Related answers GET /api/{kind}/{id}/related.
func (h *Catalog[T]) Related(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.d, err, h.notFound)
		return
	}
	items, err := h.svc.Related(r.Context(), id)
	if err != nil {
		writeError(w, r, h.d, err, h.notFound)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// Create answers POST /api/{kind}.
func (h *Catalog[T]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	if !decodeBody(w, r, &item) {
		return
	}
	created, err := h.svc.Create(r.Context(), item)
	if err != nil {
		writeError(w, r, h.d, err, h.notFound)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// decodeBody reads a JSON payload and answers 400 itself when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, CodeInvalidJSON, "Request body too large")
			return false
		}
		respond.Error(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON body")
		return false
	}
	return true
}
