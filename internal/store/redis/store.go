// Package redis keeps the catalog read cache and the session revocation
// list in Redis.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how stale a cached catalog read can be.
const DefaultCacheTTL = 5 * time.Minute

// Store handles Redis operations for the cache and sessions.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store. A non-positive ttl uses DefaultCacheTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Ping is used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
