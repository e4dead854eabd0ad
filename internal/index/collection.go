package index

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Collection is an in-memory catalog table. Slug uniqueness is enforced
// under the write lock.
type Collection[T domain.Item[T]] struct {
	mu     sync.RWMutex
	items  map[int64]T      // ID -> item
	slugs  map[string]int64 // slug -> ID
	nextID int64
}

func NewCollection[T domain.Item[T]]() *Collection[T] {
	return &Collection[T]{
		items: make(map[int64]T),
		slugs: make(map[string]int64),
	}
}

// List filters, orders and pages the collection.
func (c *Collection[T]) List(ctx context.Context, spec domain.FilterSpec) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	matched := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if matchAll(spec.Predicates, item) {
			matched = append(matched, item)
		}
	}
	c.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return spec.Order.Less(matched[i], matched[j]) })

	start := min(spec.Page.Offset, len(matched))
	end := len(matched)
	if spec.Page.Limit > 0 {
		end = min(start+spec.Page.Limit, len(matched))
	}
	return matched[start:end], nil
}

func matchAll(preds []domain.Predicate, r domain.Record) bool {
	for _, p := range preds {
		if !p.Match(r) {
			return false
		}
	}
	return true
}

func (c *Collection[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.slugs[slug]
	if !ok {
		return zero, domain.ErrNotFound
	}
	return c.items[id], nil
}

func (c *Collection[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	return item, nil
}

// Exists reports whether an item with the given ID is present.
func (c *Collection[T]) Exists(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[id]
	return ok
}

func (c *Collection[T]) Insert(ctx context.Context, item T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.insertLocked(item)
	if !ok {
		var zero T
		return zero, domain.ErrDuplicateSlug
	}
	return stored, nil
}

// InsertMany skips items whose slug is already taken.
func (c *Collection[T]) InsertMany(ctx context.Context, items []T) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inserted := 0
	for _, item := range items {
		if _, ok := c.insertLocked(item); ok {
			inserted++
		}
	}
	return inserted, nil
}

func (c *Collection[T]) insertLocked(item T) (T, bool) {
	slug := strings.TrimSpace(item.GetSlug())
	if _, taken := c.slugs[slug]; taken {
		return item, false
	}

	c.nextID++
	createdAt, _ := item.Field("created_at").(time.Time)
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	stored := item.Stamp(c.nextID, createdAt)
	c.items[stored.GetID()] = stored
	c.slugs[slug] = stored.GetID()
	return stored, true
}

// Clear drops every item. IDs keep counting.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[int64]T)
	c.slugs = make(map[string]int64)
}

// Count returns the number of items in the collection.
func (c *Collection[T]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
