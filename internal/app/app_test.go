package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/seed"
	redisstore "github.com/MrSnakeDoc/shelf/internal/store/redis"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage:         config.StorageMemory,
		Production:      true,
		DBQueryTimeout:  time.Second,
		TokenTTL:        time.Hour,
		AdminSecret:     "admin",
		SeedDir:         "../../seeds",
		RateLimitBurst:  100,
		RateLimitPerMin: 100,
	}
}

func serve(t *testing.T, h http.Handler, method, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestWire_SeedsBundledFixtures(t *testing.T) {
	cfg := testConfig()
	d, err := wire(cfg, logger.Nop(), memoryStorage(), nil)
	require.NoError(t, err)
	h := httpserver.New(cfg, logger.Nop(), d).Handler()

	w := serve(t, h, http.MethodPost, "/api/admin/seed?clear=true", "Authorization", "Bearer admin")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report seed.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.Success, report.Errors)
	assert.Equal(t, 4, report.Counts["apps"])
	assert.Equal(t, 4, report.Counts["workflows"])
	assert.Equal(t, 4, report.Counts["repos"])
	assert.Equal(t, 3, report.Counts["mcps"])

	w = serve(t, h, http.MethodGet, "/api/repos?hideArchived=true&sort=stars")
	require.Equal(t, http.StatusOK, w.Code)
	var repos []domain.Repo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &repos))
	require.Len(t, repos, 3)
	assert.Equal(t, "rectangle", repos[0].Slug)

	w = serve(t, h, http.MethodGet, "/api/apps?pricing=paid")
	var apps []domain.App
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, "focus-timer", apps[0].Slug)

	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/readyz").Code)
}

func TestWire_WithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cache := redisstore.NewStore(client, time.Minute)
	d, err := wire(cfg, logger.Nop(), memoryStorage(), cache)
	require.NoError(t, err)
	require.Len(t, d.Checks, 2)
	h := httpserver.New(cfg, logger.Nop(), d).Handler()

	require.Equal(t, http.StatusOK, serve(t, h, http.MethodPost, "/api/admin/seed?type=apps", "Authorization", "Bearer admin").Code)
	require.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/api/apps?slug=arcadia").Code)
	gen, err := cache.Generation(context.Background(), "apps")
	require.NoError(t, err)
	assert.True(t, mr.Exists(redisstore.SlugKey("apps", gen, "arcadia")))

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, h, http.MethodGet, "/readyz").Code)
	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/api/apps?slug=arcadia").Code, "cache outage is not fatal")
}
