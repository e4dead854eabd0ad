package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrSnakeDoc/shelf/internal/bookmarks"
	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/identity"
	"github.com/MrSnakeDoc/shelf/internal/index"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/seed"
	"github.com/MrSnakeDoc/shelf/internal/store/postgres"
)

// storage groups the repositories of one backend.
type storage struct {
	name      string
	apps      catalog.Repository[domain.App]
	workflows catalog.Repository[domain.Workflow]
	repos     catalog.Repository[domain.Repo]
	mcps      catalog.Repository[domain.MCP]
	bookmarks bookmarks.Store
	accounts  identity.AccountStore
	clearer   seed.Clearer
	ping      func(ctx context.Context) error
	close     func() error
}

func memoryStorage() storage {
	idx := index.NewMemoryIndex()
	return storage{
		name:      config.StorageMemory,
		apps:      idx.Apps,
		workflows: idx.Workflows,
		repos:     idx.Repos,
		mcps:      idx.MCPs,
		bookmarks: idx,
		accounts:  idx,
		clearer:   idx,
		ping:      idx.Ping,
		close:     func() error { return nil },
	}
}

func postgresStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (storage, error) {
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return storage{}, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return storage{}, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database migrations applied")
	}

	return postgresRepositories(db), nil
}

func postgresRepositories(db *sql.DB) storage {
	admin := postgres.NewAdmin(db)
	return storage{
		name:      config.StoragePostgres,
		apps:      postgres.NewApps(db),
		workflows: postgres.NewWorkflows(db),
		repos:     postgres.NewRepos(db),
		mcps:      postgres.NewMCPs(db),
		bookmarks: postgres.NewBookmarks(db),
		accounts:  postgres.NewAccounts(db),
		clearer:   admin,
		ping:      admin.Ping,
		close:     db.Close,
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memoryStorage(), nil
	}
	return postgresStorage(ctx, cfg, log)
}
