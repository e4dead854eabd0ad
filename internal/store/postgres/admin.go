package postgres

import (
	"context"
	"database/sql"
)

// Admin groups maintenance operations over the whole schema.
type Admin struct {
	db *sql.DB
}

func NewAdmin(db *sql.DB) *Admin {
	return &Admin{db: db}
}

// ClearAll empties every catalog table and the bookmarks that reference
// them. Identity sequences keep counting.
func (a *Admin) ClearAll(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `TRUNCATE TABLE bookmarks, apps, workflows, repos, mcps`)
	return wrap("clear catalog", err)
}

// Ping is used by the readiness probe.
func (a *Admin) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}
