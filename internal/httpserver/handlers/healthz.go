package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuiltAt   string `json:"builtAt,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

type healthzBody struct {
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	Build         buildInfo `json:"build"`
	Uptime        string    `json:"uptime"`
	UptimeSeconds int64     `json:"uptimeSeconds"`
	// Backends names what /readyz pings; liveness never contacts them.
	Backends []string `json:"backends"`
}

// Healthz is the liveness probe of the catalog service.
func Healthz(d deps.Deps) http.HandlerFunc {
	backends := make([]string, 0, len(d.Checks))
	for _, c := range d.Checks {
		backends = append(backends, c.Name)
	}
	build := buildInfo{Version: d.Version, Commit: d.Commit, BuiltAt: d.BuildDate, GoVersion: d.GoVersion}

	return func(w http.ResponseWriter, _ *http.Request) {
		up := d.Now().Sub(d.StartTime).Truncate(time.Second)
		w.Header().Set("Cache-Control", "no-store")
		respond.JSON(w, http.StatusOK, healthzBody{
			Status:        "ok",
			Service:       "shelf",
			Build:         build,
			Uptime:        up.String(),
			UptimeSeconds: int64(up.Seconds()),
			Backends:      backends,
		})
	}
}
