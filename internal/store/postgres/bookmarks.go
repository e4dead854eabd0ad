package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// bookmarkAppColumns selects the joined app with zero values when the join
// finds nothing, so scanApp can be reused; a zero id means no app.
var bookmarkAppColumns = strings.Join([]string{
	"COALESCE(a.id, 0)", "COALESCE(a.name, '')", "COALESCE(a.slug, '')",
	"COALESCE(a.description, '')", "COALESCE(a.short_description, '')",
	"COALESCE(a.developer, '')", "COALESCE(a.icon_url, '')", "COALESCE(a.download_url, '')",
	"COALESCE(a.platform, '')", "COALESCE(a.category, '')", "COALESCE(a.price, '')",
	"COALESCE(a.is_paid, FALSE)", "COALESCE(a.pricing_model, '')",
	"COALESCE(a.screenshots, '[]'::jsonb)", "COALESCE(a.tags, '[]'::jsonb)",
	"COALESCE(a.rating, 0)", "COALESCE(a.reviews_count, 0)",
	"COALESCE(a.created_at, 'epoch'::timestamptz)",
}, ", ")

// Bookmarks is the Postgres store of account bookmarks.
type Bookmarks struct {
	db *sql.DB
}

func NewBookmarks(db *sql.DB) *Bookmarks {
	return &Bookmarks{db: db}
}

func scanBookmark(s scanner) (domain.Bookmark, error) {
	var b domain.Bookmark
	var a domain.App
	var screenshots, tags stringList
	err := s.Scan(
		&b.ID, &b.AccountID, &b.AppID, &b.CreatedAt,
		&a.ID, &a.Name, &a.Slug, &a.Description, &a.ShortDescription,
		&a.Developer, &a.IconURL, &a.DownloadURL,
		&a.Platform, &a.Category, &a.Price,
		&a.IsPaid, &a.PricingModel,
		&screenshots, &tags,
		&a.Rating, &a.ReviewsCount,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Bookmark{}, err
	}
	if a.ID != 0 {
		a.Screenshots, a.Tags = screenshots, tags
		b.App = &a
	}
	return b, nil
}

// ListByAccount returns the bookmarks of an account, newest first.
func (s *Bookmarks) ListByAccount(ctx context.Context, accountID string) ([]domain.Bookmark, error) {
	query := `SELECT b.id, b.account_id, b.app_id, b.created_at, ` + bookmarkAppColumns + `
		FROM bookmarks b
		LEFT JOIN apps a ON a.id = b.app_id
		WHERE b.account_id = $1
		ORDER BY b.created_at DESC, b.id DESC`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, wrap("list bookmarks", err)
	}
	defer rows.Close()

	out := []domain.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, wrap("scan bookmark", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list bookmarks", err)
	}
	return out, nil
}

func (s *Bookmarks) AppExists(ctx context.Context, appID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM apps WHERE id = $1)`, appID).Scan(&exists)
	if err != nil {
		return false, wrap("check app", err)
	}
	return exists, nil
}

// Insert creates the bookmark and returns it joined with its app. The unique
// constraint on (account_id, app_id) settles concurrent inserts.
func (s *Bookmarks) Insert(ctx context.Context, accountID string, appID int64, at time.Time) (domain.Bookmark, error) {
	query := `WITH ins AS (
			INSERT INTO bookmarks (account_id, app_id, created_at)
			VALUES ($1, $2, $3)
			RETURNING id, account_id, app_id, created_at
		)
		SELECT ins.id, ins.account_id, ins.app_id, ins.created_at, ` + bookmarkAppColumns + `
		FROM ins
		LEFT JOIN apps a ON a.id = ins.app_id`

	b, err := scanBookmark(s.db.QueryRowContext(ctx, query, accountID, appID, at))
	if err != nil {
		switch code, constraint := pgCode(err); {
		case code == codeUniqueViolation:
			return domain.Bookmark{}, domain.ErrDuplicateBookmark
		case code == codeForeignKeyViolation && strings.Contains(constraint, "app_id"):
			return domain.Bookmark{}, domain.ErrAppNotFound
		case code == codeForeignKeyViolation:
			return domain.Bookmark{}, domain.ErrUnauthorized
		}
		return domain.Bookmark{}, wrap("insert bookmark", err)
	}
	return b, nil
}

// Delete reports whether a bookmark was removed.
func (s *Bookmarks) Delete(ctx context.Context, accountID string, appID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE account_id = $1 AND app_id = $2`, accountID, appID)
	if err != nil {
		return false, wrap("delete bookmark", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("delete bookmark", err)
	}
	return n > 0, nil
}
