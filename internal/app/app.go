package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/shelf/internal/bookmarks"
	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/identity"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/redis"
	"github.com/MrSnakeDoc/shelf/internal/scheduler"
	"github.com/MrSnakeDoc/shelf/internal/seed"
	seedsrc "github.com/MrSnakeDoc/shelf/internal/sources/seed"
	redisstore "github.com/MrSnakeDoc/shelf/internal/store/redis"
	"github.com/MrSnakeDoc/shelf/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	storage     storage
	redisClient *goredis.Client
	reloader    *scheduler.SeedReloader
}

func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.PrettyLog,
		Service: "shelf",
		Version: version.Version,
	})

	st, err := openStorage(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("storage initialized", logger.String("backend", st.name))

	var (
		redisClient *goredis.Client
		cache       *redisstore.Store
	)
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			_ = st.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		cache = redisstore.NewStore(redisClient, cfg.CacheTTL)
		loggerClient.Info("Redis initialized successfully")
	} else {
		loggerClient.Warn("SHELF_REDIS_ADDR not set, catalog cache and sign-out revocation disabled")
	}

	d, err := wire(cfg, loggerClient, st, cache)
	if err != nil {
		_ = st.close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		storage:     st,
		redisClient: redisClient,
	}
	if cfg.SeedOnStart {
		a.reloader = scheduler.NewSeedReloader(d.Seeder, logger.Named(loggerClient, "seed-reload"), cfg.SeedInterval)
	}
	return a, nil
}

// wire builds the services on top of a storage backend and an optional cache.
func wire(cfg *config.Config, log logger.Logger, st storage, cache *redisstore.Store) (deps.Deps, error) {
	m := metrics.New("shelf")

	opts := catalog.Options{Metrics: m, QueryTimeout: cfg.DBQueryTimeout, LoadTimeout: cfg.SeedTimeout}
	var (
		revocations identity.Revocations
		flusher     seed.Flusher
	)
	if cache != nil {
		opts.Cache = cache
		revocations = cache
		flusher = cache
	}

	apps := catalog.NewService(domain.Apps, st.apps, logger.Named(log, "apps"), opts)
	workflows := catalog.NewService(domain.Workflows, st.workflows, logger.Named(log, "workflows"), opts)
	repos := catalog.NewService(domain.Repos, st.repos, logger.Named(log, "repos"), opts)
	mcps := catalog.NewService(domain.MCPs, st.mcps, logger.Named(log, "mcps"), opts)

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return deps.Deps{}, fmt.Errorf("generate token secret: %w", err)
		}
		log.Warn("SHELF_JWT_SECRET not set, sessions will not survive a restart")
	}
	auth := identity.NewService(st.accounts, revocations, identity.NewIssuer(secret, cfg.TokenTTL), logger.Named(log, "identity"))

	loader := seedsrc.NewLoader(cfg.SeedDir)
	seeder := seed.NewCoordinator(st.clearer, flusher, logger.Named(log, "seed"), m,
		seed.CollectionStep(domain.KindWorkflows, loader.Workflows, workflows),
		seed.CollectionStep(domain.KindRepos, loader.Repos, repos),
		seed.CollectionStep(domain.KindMCPs, loader.MCPs, mcps),
		seed.CollectionStep(domain.KindApps, loader.Apps, apps),
	)
	seeder.SetStepTimeout(cfg.SeedTimeout)

	checks := []deps.Check{{Name: st.name, Ping: st.ping}}
	if cache != nil {
		checks = append(checks, deps.Check{Name: "redis", Ping: cache.Ping})
	}

	return deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		Production:      cfg.Production,
		CookieSecure:    cfg.CookieSecure,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		AdminSecret:     cfg.AdminSecret,
		Checks:          checks,
		Apps:            apps,
		Workflows:       workflows,
		Repos:           repos,
		MCPs:            mcps,
		Bookmarks:       bookmarks.NewManager(st.bookmarks, logger.Named(log, "bookmarks"), m, cfg.DBQueryTimeout),
		Seeder:          seeder,
		Auth:            auth,
		Identity:        auth,
		Metrics:         m,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Shelf %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Shelf %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		a.reloader.Start(ctx)
		a.logger.Info("seed reloader started",
			logger.String("dir", a.cfg.SeedDir),
			logger.Duration("interval", a.cfg.SeedInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.storage.close(); err != nil {
		a.logger.Warnf("failed to close %s: %v", a.storage.name, err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	_ = a.logger.Sync()
	a.logger.Info("✅ Shelf stopped cleanly")
	return nil
}
