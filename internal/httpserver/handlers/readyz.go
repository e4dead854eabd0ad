package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Readyz pings every configured dependency and answers 503 when one fails.
func Readyz(d deps.Deps) http.HandlerFunc {
	timeout := d.ReadyTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		res := readyzResponse{Ready: true, Checks: make(map[string]string, len(d.Checks))}
		for _, c := range d.Checks {
			if err := c.Ping(ctx); err != nil {
				d.Logger.Warn("readiness check failed", logger.String("check", c.Name), logger.Error(err))
				res.Ready = false
				res.Checks[c.Name] = "down"
				continue
			}
			res.Checks[c.Name] = "ok"
		}

		status := http.StatusOK
		if !res.Ready {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Cache-Control", "no-store")
		respond.JSON(w, status, res)
	}
}
