package index

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// MemoryIndex is the in-process store used when no database is configured
// and by tests. It holds every collection plus bookmarks and accounts.
type MemoryIndex struct {
	Apps      *Collection[domain.App]
	Workflows *Collection[domain.Workflow]
	Repos     *Collection[domain.Repo]
	MCPs      *Collection[domain.MCP]

	mu             sync.RWMutex
	bookmarks      map[int64]domain.Bookmark // ID -> bookmark (without joined app)
	pairs          map[pairKey]int64         // (account, app) -> bookmark ID
	nextBookmarkID int64

	accounts map[string]storedAccount // ID -> account
	emails   map[string]string        // lowercased email -> ID
}

type pairKey struct {
	account string
	app     int64
}

type storedAccount struct {
	account domain.Account
	hash    []byte
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		Apps:      NewCollection[domain.App](),
		Workflows: NewCollection[domain.Workflow](),
		Repos:     NewCollection[domain.Repo](),
		MCPs:      NewCollection[domain.MCP](),
		bookmarks: make(map[int64]domain.Bookmark),
		pairs:     make(map[pairKey]int64),
		accounts:  make(map[string]storedAccount),
		emails:    make(map[string]string),
	}
}

// ─────────────────────────────
// Bookmarks
// ─────────────────────────────

func (idx *MemoryIndex) AppExists(ctx context.Context, appID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return idx.Apps.Exists(appID), nil
}

func (idx *MemoryIndex) withApp(ctx context.Context, b domain.Bookmark) domain.Bookmark {
	if app, err := idx.Apps.GetByID(ctx, b.AppID); err == nil {
		b.App = &app
	}
	return b
}

// ListByAccount returns an account's bookmarks, newest first.
func (idx *MemoryIndex) ListByAccount(ctx context.Context, accountID string) ([]domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	out := make([]domain.Bookmark, 0)
	for _, b := range idx.bookmarks {
		if b.AccountID == accountID {
			out = append(out, b)
		}
	}
	idx.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	for i := range out {
		out[i] = idx.withApp(ctx, out[i])
	}
	return out, nil
}

// Insert adds a bookmark. The pair check and the write happen under one lock
// so concurrent inserts of the same pair leave exactly one row.
func (idx *MemoryIndex) Insert(ctx context.Context, accountID string, appID int64, at time.Time) (domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bookmark{}, err
	}
	if !idx.Apps.Exists(appID) {
		return domain.Bookmark{}, domain.ErrAppNotFound
	}

	idx.mu.Lock()
	key := pairKey{account: accountID, app: appID}
	if _, dup := idx.pairs[key]; dup {
		idx.mu.Unlock()
		return domain.Bookmark{}, domain.ErrDuplicateBookmark
	}
	idx.nextBookmarkID++
	b := domain.Bookmark{ID: idx.nextBookmarkID, AccountID: accountID, AppID: appID, CreatedAt: at}
	idx.bookmarks[b.ID] = b
	idx.pairs[key] = b.ID
	idx.mu.Unlock()

	return idx.withApp(ctx, b), nil
}

func (idx *MemoryIndex) Delete(ctx context.Context, accountID string, appID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := pairKey{account: accountID, app: appID}
	id, ok := idx.pairs[key]
	if !ok {
		return false, nil
	}
	delete(idx.pairs, key)
	delete(idx.bookmarks, id)
	return true, nil
}

// ─────────────────────────────
// Accounts
// ─────────────────────────────

func (idx *MemoryIndex) CreateAccount(ctx context.Context, acc domain.Account, passwordHash []byte) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	email := strings.ToLower(acc.Email)
	if _, taken := idx.emails[email]; taken {
		return domain.Account{}, domain.ErrEmailTaken
	}
	idx.accounts[acc.ID] = storedAccount{account: acc, hash: passwordHash}
	idx.emails[email] = acc.ID
	return acc, nil
}

func (idx *MemoryIndex) AccountByEmail(ctx context.Context, email string) (domain.Account, []byte, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	id, ok := idx.emails[strings.ToLower(email)]
	if !ok {
		return domain.Account{}, nil, domain.ErrNotFound
	}
	stored := idx.accounts[id]
	return stored.account, stored.hash, nil
}

func (idx *MemoryIndex) AccountByID(ctx context.Context, id string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	stored, ok := idx.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return stored.account, nil
}

// ─────────────────────────────
// Maintenance
// ─────────────────────────────

// ClearAll empties the catalog and the bookmarks referencing it.
func (idx *MemoryIndex) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx.mu.Lock()
	idx.bookmarks = make(map[int64]domain.Bookmark)
	idx.pairs = make(map[pairKey]int64)
	idx.mu.Unlock()

	idx.Apps.Clear()
	idx.Workflows.Clear()
	idx.Repos.Clear()
	idx.MCPs.Clear()
	return nil
}

// Ping always succeeds; the readiness probe treats the index as healthy.
func (idx *MemoryIndex) Ping(context.Context) error { return nil }
