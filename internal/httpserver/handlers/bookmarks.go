package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
)

type addBookmarkRequest struct {
	AppID json.RawMessage `json:"appId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// parseAppID accepts a JSON number or a numeric string.
func parseAppID(raw []byte) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		raw = []byte(strings.TrimSpace(s))
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidAppID(w http.ResponseWriter) {
	respond.Error(w, http.StatusBadRequest, "INVALID_APP_ID", "Valid appId is required")
}

// currentAccount resolves the caller and answers 401 itself when anonymous.
func currentAccount(w http.ResponseWriter, r *http.Request, d deps.Deps) (string, bool) {
	if d.Identity == nil {
		respond.Error(w, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
		return "", false
	}
	id, err := d.Identity.CurrentAccount(r)
	if err != nil {
		internalError(w, r, d, err)
		return "", false
	}
	if id == "" {
		respond.Error(w, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
		return "", false
	}
	return id, true
}

// ListBookmarks answers GET /api/bookmarks.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := currentAccount(w, r, d)
		if !ok {
			return
		}
		list, err := d.Bookmarks.List(r.Context(), account)
		if err != nil {
			writeError(w, r, d, err, "Bookmark not found")
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

// AddBookmark answers POST /api/bookmarks with {"appId": 12}.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := currentAccount(w, r, d)
		if !ok {
			return
		}

		var req addBookmarkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		appID, ok := parseAppID(req.AppID)
		if !ok {
			invalidAppID(w)
			return
		}

		b, err := d.Bookmarks.Add(r.Context(), account, appID)
		if err != nil {
			writeError(w, r, d, err, "App not found")
			return
		}
		respond.JSON(w, http.StatusCreated, b)
	}
}

// RemoveBookmark answers DELETE /api/bookmarks?appId=12.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := currentAccount(w, r, d)
		if !ok {
			return
		}

		appID, ok := parseAppID([]byte(r.URL.Query().Get("appId")))
		if !ok {
			invalidAppID(w)
			return
		}

		removed, err := d.Bookmarks.Remove(r.Context(), account, appID)
		if err != nil {
			writeError(w, r, d, err, "Bookmark not found")
			return
		}
		if !removed {
			writeError(w, r, d, domain.ErrBookmarkNotFound, "Bookmark not found")
			return
		}
		respond.JSON(w, http.StatusOK, messageResponse{Message: "Bookmark removed successfully"})
	}
}
