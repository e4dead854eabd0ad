// Package catalog implements the read and create paths of the four
// collections on top of a pluggable repository.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	rediskeys "github.com/MrSnakeDoc/shelf/internal/store/redis"
)

const (
	// DefaultQueryTimeout bounds every storage call made by a service.
	DefaultQueryTimeout = 5 * time.Second
	// DefaultLoadTimeout bounds one bulk insert.
	DefaultLoadTimeout = 30 * time.Second
)

// Repository is the storage contract of one collection.
type Repository[T any] interface {
	List(ctx context.Context, spec domain.FilterSpec) ([]T, error)
	GetBySlug(ctx context.Context, slug string) (T, error)
	GetByID(ctx context.Context, id int64) (T, error)
	Insert(ctx context.Context, item T) (T, error)
	InsertMany(ctx context.Context, items []T) (int, error)
}

// Cache is the optional read-through cache. Failures are logged and
// otherwise ignored. Keys are built under the generation read before the
// store is queried, so a flush racing a read cannot leave a stale entry.
type Cache interface {
	Generation(ctx context.Context, kind string) (string, error)
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
	FlushKind(ctx context.Context, kind string) error
}

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	Cache        Cache
	Metrics      *metrics.Collector
	QueryTimeout time.Duration
	LoadTimeout  time.Duration
	Now          func() time.Time
}

// Service answers list, detail, related and featured queries for one
// collection and validates new entries.
type Service[T domain.Item[T]] struct {
	coll    *domain.Collection
	repo    Repository[T]
	cache   Cache
	metrics *metrics.Collector
	log     logger.Logger
	timeout time.Duration
	loadTTL time.Duration
	now     func() time.Time
}

func NewService[T domain.Item[T]](coll *domain.Collection, repo Repository[T], log logger.Logger, opts Options) *Service[T] {
	s := &Service[T]{
		coll:    coll,
		repo:    repo,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		log:     log,
		timeout: opts.QueryTimeout,
		loadTTL: opts.LoadTimeout,
		now:     opts.Now,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultQueryTimeout
	}
	if s.loadTTL <= 0 {
		s.loadTTL = DefaultLoadTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service[T]) Kind() domain.Kind { return s.coll.Kind }

func (s *Service[T]) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// storageErr keeps domain errors intact and reports anything else,
// including deadline overruns, as the store being unavailable.
func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDuplicateSlug):
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// List builds a filter from raw parameters and runs it.
func (s *Service[T]) List(ctx context.Context, params domain.Params) ([]T, error) {
	spec, err := domain.BuildFilter(s.coll, params)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, spec)
}

// Query runs a prepared filter, going through the cache when one is set.
func (s *Service[T]) Query(ctx context.Context, spec domain.FilterSpec) ([]T, error) {
	gen, cacheable := s.generation(ctx)
	key := rediskeys.ListKey(string(s.coll.Kind), gen, spec.CacheKey())

	var cached []T
	if cacheable && s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	qctx, cancel := s.bounded(ctx)
	defer cancel()

	items, err := s.repo.List(qctx, spec)
	if err != nil {
		return nil, storageErr("list "+string(s.coll.Kind), err)
	}
	if items == nil {
		items = []T{}
	}

	if cacheable {
		s.cacheSet(ctx, key, items)
	}
	return items, nil
}

// GetBySlug returns domain.ErrNotFound when no item has the slug.
func (s *Service[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	gen, cacheable := s.generation(ctx)
	key := rediskeys.SlugKey(string(s.coll.Kind), gen, slug)

	var cached T
	if cacheable && s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	qctx, cancel := s.bounded(ctx)
	defer cancel()

	item, err := s.repo.GetBySlug(qctx, slug)
	if err != nil {
		var zero T
		return zero, storageErr("get "+string(s.coll.Kind), err)
	}

	if cacheable {
		s.cacheSet(ctx, key, item)
	}
	return item, nil
}

// Related returns up to RelatedLimit items sharing the source item's
// sameness key, excluding the source, most popular first. An unknown source
// yields an empty result.
func (s *Service[T]) Related(ctx context.Context, id int64) ([]T, error) {
	qctx, cancel := s.bounded(ctx)
	defer cancel()

	src, err := s.repo.GetByID(qctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, storageErr("related "+string(s.coll.Kind), err)
	}

	spec := domain.FilterSpec{
		Kind: s.coll.Kind,
		Predicates: []domain.Predicate{
			domain.Equals(s.coll.RelatedBy, src.Field(s.coll.RelatedBy)),
			domain.NotEquals("id", src.GetID()),
		},
		Sort:  "related",
		Order: s.coll.Popularity,
		Page:  domain.Page{Limit: domain.RelatedLimit},
	}
	return s.Query(ctx, spec)
}

// Featured returns the curated landing page subset.
func (s *Service[T]) Featured(ctx context.Context, limit int) ([]T, error) {
	if limit <= 0 {
		limit = domain.FeaturedLimit
	}
	spec := domain.FilterSpec{
		Kind:       s.coll.Kind,
		Predicates: s.coll.Featured.Where,
		Sort:       "featured",
		Order:      s.coll.Featured.Order,
		Page:       domain.Page{Limit: min(limit, domain.MaxFeatured)},
	}
	return s.Query(ctx, spec)
}

// Create normalizes, validates and stores a new item.
func (s *Service[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	item = item.Normalize()
	if err := domain.Validate(item); err != nil {
		return zero, err
	}
	if err := s.coll.CheckVocabulary(item); err != nil {
		return zero, err
	}

	qctx, cancel := s.bounded(ctx)
	defer cancel()

	stored, err := s.repo.Insert(qctx, item.Stamp(0, s.now().UTC()))
	if err != nil {
		return zero, storageErr("create "+string(s.coll.Kind), err)
	}

	s.flush(ctx)
	s.log.Info("catalog item created",
		logger.String("kind", string(s.coll.Kind)),
		logger.String("slug", stored.GetSlug()),
		logger.Int64("id", stored.GetID()))
	return stored, nil
}

// Load bulk-inserts seed items, skipping slugs that already exist. Items
// failing validation are rejected as a whole batch.
func (s *Service[T]) Load(ctx context.Context, items []T) (int, error) {
	now := s.now().UTC()
	batch := make([]T, 0, len(items))
	for i, item := range items {
		item = item.Normalize()
		if err := domain.Validate(item); err != nil {
			return 0, fmt.Errorf("%s item %d (%s): %w", s.coll.Kind, i, item.GetSlug(), err)
		}
		createdAt, _ := item.Field("created_at").(time.Time)
		if createdAt.IsZero() {
			createdAt = now
		}
		batch = append(batch, item.Stamp(0, createdAt))
	}

	lctx, cancel := context.WithTimeout(ctx, s.loadTTL)
	defer cancel()

	n, err := s.repo.InsertMany(lctx, batch)
	if err != nil {
		return 0, storageErr("load "+string(s.coll.Kind), err)
	}
	s.flush(ctx)
	return n, nil
}

// generation reports false when there is no usable cache.
func (s *Service[T]) generation(ctx context.Context) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen, err := s.cache.Generation(ctx, string(s.coll.Kind))
	if err != nil {
		s.log.Warn("cache generation read failed", logger.String("kind", string(s.coll.Kind)), logger.Error(err))
		return "", false
	}
	return gen, true
}

func (s *Service[T]) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
		return false
	}
	s.metrics.CacheLookup(string(s.coll.Kind), hit)
	return hit
}

func (s *Service[T]) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v); err != nil {
		s.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
}

func (s *Service[T]) flush(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.FlushKind(ctx, string(s.coll.Kind)); err != nil {
		s.log.Warn("cache flush failed", logger.String("kind", string(s.coll.Kind)), logger.Error(err))
	}
}

// ParseID reads a positive item ID from a path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.InvalidParameterError{Field: "id", Value: raw, Reason: "must be a positive integer"}
	}
	return id, nil
}
