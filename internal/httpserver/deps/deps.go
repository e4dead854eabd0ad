package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/bookmarks"
	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/identity"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/seed"
)

// Check is one readiness probe (database, cache).
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to reach the API
	AllowedCIDRS []string         // IPs allowed to reach readyz/metrics
	TrustProxy   bool             // true behind a trusted reverse proxy
	Production   bool             // hides internal error details from 500 bodies
	CookieSecure bool             // Secure flag on the session cookie

	RateLimitBurst  int // POST requests per client before throttling
	RateLimitPerMin int
	WriteLimit      func(http.Handler) http.Handler // shared limiter for write routes, set by the server

	AdminSecret  string // bearer secret for /api/admin/*; empty disables the endpoint
	ReadyTimeout time.Duration
	Checks       []Check

	Apps      *catalog.Service[domain.App]
	Workflows *catalog.Service[domain.Workflow]
	Repos     *catalog.Service[domain.Repo]
	MCPs      *catalog.Service[domain.MCP]
	Bookmarks *bookmarks.Manager
	Seeder    *seed.Coordinator
	Auth      *identity.Service
	Identity  identity.Provider // resolves the caller; usually Auth
	Metrics   *metrics.Collector
}

// Now returns the injected clock or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
