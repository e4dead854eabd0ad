package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

// RateLimitConfig tunes the per-client write limiter.
type RateLimitConfig struct {
	Burst      int
	PerMinute  int
	MaxEntries int           // sweep early once this many clients are tracked
	IdleTTL    time.Duration // forget clients idle for longer
	TrustProxy bool
	Now        func() time.Time
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

type clientLimiter struct {
	cfg   RateLimitConfig
	limit rate.Limit

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newClientLimiter(cfg RateLimitConfig) *clientLimiter {
	cfg.Burst = max(cfg.Burst, 1)
	cfg.PerMinute = max(cfg.PerMinute, 1)
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &clientLimiter{
		cfg:       cfg,
		limit:     rate.Limit(float64(cfg.PerMinute) / 60),
		visitors:  make(map[string]*visitor),
		lastSweep: cfg.Now(),
	}
}

func (l *clientLimiter) visitor(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.visitors) >= l.cfg.MaxEntries
	if full || now.Sub(l.lastSweep) >= time.Minute {
		for k, v := range l.visitors {
			if now.Sub(v.seen) > l.cfg.IdleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.limit, l.cfg.Burst)}
		l.visitors[key] = v
	}
	v.seen = now
	return v.lim
}

// take spends one token. On refusal it reports how long until one is back.
func (l *clientLimiter) take(key string, now time.Time) (ok bool, remaining int, retryAfter int) {
	lim := l.visitor(key, now)
	if lim.AllowN(now, 1) {
		return true, int(math.Floor(lim.TokensAt(now))), 0
	}
	missing := 1 - lim.TokensAt(now)
	return false, 0, max(int(math.Ceil(missing/float64(l.limit))), 1)
}

// RateLimit is a per-client token bucket keyed by client IP. Throttled
// requests get a JSON 429 with Retry-After.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newClientLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retry := l.take(utils.ClientIP(r, l.cfg.TrustProxy), l.cfg.Now())

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				respond.Error(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
