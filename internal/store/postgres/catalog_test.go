package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var repoColumns = []string{
	"id", "name", "slug", "description", "short_description", "author",
	"github_url", "language", "topics", "stars", "forks",
	"is_archived", "last_updated", "created_at",
}

func repoRow(id, stars int64, at time.Time) []driver.Value {
	return []driver.Value{
		id, "repo", fmt.Sprintf("repo-%d", id), "desc", "short", "octo",
		"https://github.com/octo/repo", "Go", []byte(`["cli"]`), stars, int64(1),
		false, at, at,
	}
}

func TestCatalog_ListByStars(t *testing.T) {
	db, mock := newMock(t)
	repos := NewRepos(db)
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(repoColumns).
		AddRow(repoRow(2, 50, at)...).
		AddRow(repoRow(1, 10, at)...).
		AddRow(repoRow(3, 5, at)...)

	mock.ExpectQuery(`(?s)^SELECT id, name, .* FROM repos ORDER BY stars DESC, id DESC LIMIT \$1$`).
		WithArgs(20).
		WillReturnRows(rows)

	spec, err := domain.BuildFilter(domain.Repos, domain.Params{"sort": "stars"})
	require.NoError(t, err)

	got, err := repos.List(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{50, 10, 5}, []int64{got[0].Stars, got[1].Stars, got[2].Stars})
	assert.Equal(t, []string{"cli"}, got[0].Topics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_ListStorageError(t *testing.T) {
	db, mock := newMock(t)
	repos := NewRepos(db)

	mock.ExpectQuery(`FROM repos`).WillReturnError(errors.New("connection refused"))

	_, err := repos.List(context.Background(), domain.FilterSpec{Order: domain.Desc("created_at")})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestCatalog_GetBySlugNotFound(t *testing.T) {
	db, mock := newMock(t)
	repos := NewRepos(db)

	mock.ExpectQuery(`(?s)FROM repos WHERE slug = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(repoColumns))

	_, err := repos.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_InsertDuplicateSlug(t *testing.T) {
	db, mock := newMock(t)
	apps := NewApps(db)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO apps \(name, slug, .*created_at\) VALUES \(\$1, .*\$17\) RETURNING id$`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "apps_slug_key"})

	_, err := apps.Insert(context.Background(), domain.App{Name: "Arcadia", Slug: "arcadia"}.Normalize())
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestCatalog_InsertAssignsID(t *testing.T) {
	db, mock := newMock(t)
	mcps := NewMCPs(db)
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO mcps`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	got, err := mcps.Insert(context.Background(), domain.MCP{Slug: "fs", CreatedAt: at})
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ID)
	assert.Equal(t, at, got.CreatedAt)
}

func TestCatalog_InsertManySkipsExistingSlugs(t *testing.T) {
	db, mock := newMock(t)
	workflows := NewWorkflows(db)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`(?s)^INSERT\s+INTO workflows .* ON CONFLICT \(slug\) DO NOTHING RETURNING id$`)
	prep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	prep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}))
	prep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectCommit()

	n, err := workflows.InsertMany(context.Background(), []domain.Workflow{
		{Slug: "a"}, {Slug: "existing"}, {Slug: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_InsertManyRollsBack(t *testing.T) {
	db, mock := newMock(t)
	workflows := NewWorkflows(db)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT\s+INTO workflows`)
	prep.ExpectQuery().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := workflows.InsertMany(context.Background(), []domain.Workflow{{Slug: "a"}})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_UsesEmbeddedDir(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}
