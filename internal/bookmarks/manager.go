// Package bookmarks manages the saved-app relation between accounts and apps.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
)

// Store persists bookmarks. Insert must reject a second row for the same
// (account, app) pair with domain.ErrDuplicateBookmark.
type Store interface {
	ListByAccount(ctx context.Context, accountID string) ([]domain.Bookmark, error)
	AppExists(ctx context.Context, appID int64) (bool, error)
	Insert(ctx context.Context, accountID string, appID int64, at time.Time) (domain.Bookmark, error)
	Delete(ctx context.Context, accountID string, appID int64) (bool, error)
}

// Manager applies bookmark operations on behalf of an authenticated account.
// The account ID is always passed in explicitly; an empty ID is anonymous.
type Manager struct {
	store   Store
	log     logger.Logger
	metrics *metrics.Collector
	timeout time.Duration
	now     func() time.Time
}

func NewManager(store Store, log logger.Logger, m *metrics.Collector, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Manager{store: store, log: log, metrics: m, timeout: timeout, now: time.Now}
}

func unavailable(op string, err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// List returns the account's bookmarks newest first, each joined with its app.
func (m *Manager) List(ctx context.Context, accountID string) ([]domain.Bookmark, error) {
	if accountID == "" {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	list, err := m.store.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, unavailable("list bookmarks", err)
	}
	return list, nil
}

// Add bookmarks an app. It fails with domain.ErrAppNotFound for unknown apps
// and domain.ErrDuplicateBookmark when the pair already exists.
func (m *Manager) Add(ctx context.Context, accountID string, appID int64) (domain.Bookmark, error) {
	b, err := m.add(ctx, accountID, appID)
	m.metrics.BookmarkMutation("add", outcome(err))
	if err != nil && errors.Is(err, domain.ErrStorageUnavailable) {
		m.log.Error("bookmark add failed",
			logger.String("account", accountID),
			logger.Int64("app_id", appID),
			logger.Error(err))
	}
	return b, err
}

func (m *Manager) add(ctx context.Context, accountID string, appID int64) (domain.Bookmark, error) {
	if accountID == "" {
		return domain.Bookmark{}, domain.ErrUnauthorized
	}
	if appID <= 0 {
		return domain.Bookmark{}, &domain.InvalidParameterError{Field: "appId", Value: fmt.Sprint(appID), Reason: "must be a positive integer"}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	exists, err := m.store.AppExists(ctx, appID)
	if err != nil {
		return domain.Bookmark{}, unavailable("check app", err)
	}
	if !exists {
		return domain.Bookmark{}, domain.ErrAppNotFound
	}

	b, err := m.store.Insert(ctx, accountID, appID, m.now().UTC())
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, domain.ErrDuplicateBookmark),
		errors.Is(err, domain.ErrAppNotFound),
		errors.Is(err, domain.ErrUnauthorized):
		return domain.Bookmark{}, err
	}
	return domain.Bookmark{}, unavailable("insert bookmark", err)
}

// Remove deletes the bookmark and reports whether one existed.
func (m *Manager) Remove(ctx context.Context, accountID string, appID int64) (bool, error) {
	if accountID == "" {
		m.metrics.BookmarkMutation("remove", "unauthorized")
		return false, domain.ErrUnauthorized
	}
	if appID <= 0 {
		return false, &domain.InvalidParameterError{Field: "appId", Value: fmt.Sprint(appID), Reason: "must be a positive integer"}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	removed, err := m.store.Delete(ctx, accountID, appID)
	if err != nil {
		m.metrics.BookmarkMutation("remove", "error")
		return false, unavailable("delete bookmark", err)
	}
	if removed {
		m.metrics.BookmarkMutation("remove", "ok")
	} else {
		m.metrics.BookmarkMutation("remove", "not_found")
	}
	return removed, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrInvalidParameter):
		return "invalid"
	case errors.Is(err, domain.ErrAppNotFound):
		return "app_not_found"
	case errors.Is(err, domain.ErrDuplicateBookmark):
		return "duplicate"
	default:
		return "error"
	}
}
