package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/seed"
)

// Seed answers POST /api/admin/seed?type=all|apps|...&clear=true.
func Seed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			respond.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
			return
		}
		if d.AdminSecret == "" || d.Seeder == nil {
			respond.Error(w, http.StatusInternalServerError, "ADMIN_NOT_CONFIGURED", "Admin secret not configured")
			return
		}
		if !validAdminToken(r.Header.Get("Authorization"), d.AdminSecret) {
			d.Logger.Warn("rejected admin request", logger.String("remote_ip", r.RemoteAddr))
			respond.Error(w, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
			return
		}

		q := r.URL.Query()
		clear := strings.EqualFold(strings.TrimSpace(q.Get("clear")), "true")

		report, err := d.Seeder.Run(r.Context(), q.Get("type"), clear)
		if errors.Is(err, seed.ErrUnknownSelector) {
			respond.Error(w, http.StatusBadRequest, "INVALID_TYPE", "Invalid type. Must be one of: all, apps, workflows, repos, mcps")
			return
		}
		if err != nil {
			internalError(w, r, d, err)
			return
		}
		respond.JSON(w, http.StatusOK, report)
	}
}

func validAdminToken(header, secret string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(secret)) == 1
}
