package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// table binds a catalog item type to its relational layout. Data columns
// exclude id and created_at, which every catalog table carries.
type table[T domain.Item[T]] struct {
	name    string
	columns []string
	scan    func(s scanner) (T, error)
	values  func(item T) []any
}

func (t table[T]) selectColumns() []string {
	cols := make([]string, 0, len(t.columns)+2)
	cols = append(cols, "id")
	cols = append(cols, t.columns...)
	return append(cols, "created_at")
}

// Catalog is the Postgres repository of one collection.
type Catalog[T domain.Item[T]] struct {
	db *sql.DB
	t  table[T]
}

func newCatalog[T domain.Item[T]](db *sql.DB, t table[T]) *Catalog[T] {
	return &Catalog[T]{db: db, t: t}
}

func NewApps(db *sql.DB) *Catalog[domain.App]           { return newCatalog(db, appsTable) }
func NewWorkflows(db *sql.DB) *Catalog[domain.Workflow] { return newCatalog(db, workflowsTable) }
func NewRepos(db *sql.DB) *Catalog[domain.Repo]         { return newCatalog(db, reposTable) }
func NewMCPs(db *sql.DB) *Catalog[domain.MCP]           { return newCatalog(db, mcpsTable) }

// List runs a filtered, ordered, paginated query.
func (c *Catalog[T]) List(ctx context.Context, spec domain.FilterSpec) ([]T, error) {
	cols := c.t.selectColumns()
	query, args, err := newSelectBuilder(c.t.name, cols).build(cols, spec)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list "+c.t.name, err)
	}
	defer rows.Close()

	out := make([]T, 0, spec.Page.Limit)
	for rows.Next() {
		item, err := c.t.scan(rows)
		if err != nil {
			return nil, wrap("scan "+c.t.name, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list "+c.t.name, err)
	}
	return out, nil
}

func (c *Catalog[T]) getBy(ctx context.Context, column string, value any) (T, error) {
	query := "SELECT " + strings.Join(c.t.selectColumns(), ", ") +
		" FROM " + c.t.name + " WHERE " + column + " = $1"
	item, err := c.t.scan(c.db.QueryRowContext(ctx, query, value))
	if err != nil {
		var zero T
		return zero, wrap("get "+c.t.name, err)
	}
	return item, nil
}

// GetBySlug returns domain.ErrNotFound when no row matches.
func (c *Catalog[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	return c.getBy(ctx, "slug", slug)
}

func (c *Catalog[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return c.getBy(ctx, "id", id)
}

func (c *Catalog[T]) insertSQL(onConflict string) string {
	cols := append(append([]string{}, c.t.columns...), "created_at")
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = "$" + strconv.Itoa(i+1)
	}
	return "INSERT INTO " + c.t.name + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(ph, ", ") + ")" + onConflict + " RETURNING id"
}

func (c *Catalog[T]) insertArgs(item T) []any {
	createdAt, _ := item.Field("created_at").(time.Time)
	return append(c.t.values(item), createdAt)
}

// Insert stores a new item. A taken slug yields domain.ErrDuplicateSlug.
func (c *Catalog[T]) Insert(ctx context.Context, item T) (T, error) {
	var id int64
	err := c.db.QueryRowContext(ctx, c.insertSQL(""), c.insertArgs(item)...).Scan(&id)
	if err != nil {
		var zero T
		if code, _ := pgCode(err); code == codeUniqueViolation {
			return zero, domain.ErrDuplicateSlug
		}
		return zero, wrap("insert "+c.t.name, err)
	}
	createdAt, _ := item.Field("created_at").(time.Time)
	return item.Stamp(id, createdAt), nil
}

// InsertMany stores items in one transaction, skipping slugs that already
// exist. It returns the number of rows inserted.
func (c *Catalog[T]) InsertMany(ctx context.Context, items []T) (int, error) {
	query := c.insertSQL(" ON CONFLICT (slug) DO NOTHING")
	inserted := 0

	err := withTx(ctx, c.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, item := range items {
			var id int64
			err := stmt.QueryRowContext(ctx, c.insertArgs(item)...).Scan(&id)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// slug already present
			case err != nil:
				return err
			default:
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, wrap("bulk insert "+c.t.name, err)
	}
	return inserted, nil
}
