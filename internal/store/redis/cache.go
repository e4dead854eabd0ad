package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// GetJSON loads a cached value into dst. It reports false on a cache miss.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// A corrupt entry is a miss; drop it so the next write replaces it.
		_ = s.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON caches a value for the store TTL.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Generation returns the cache generation of one collection. Keys are built
// under it, and every flush moves it forward, so a read that started before a
// flush can only write into a key nobody looks up anymore.
func (s *Store) Generation(ctx context.Context, kind string) (string, error) {
	vals, err := s.client.MGet(ctx, keyGenerationCatalog, GenerationKey(kind)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read cache generation: %w", err)
	}
	return "g" + counter(vals[0]) + "." + counter(vals[1]), nil
}

func counter(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

// FlushKind invalidates every cached read of one collection.
func (s *Store) FlushKind(ctx context.Context, kind string) error {
	if err := s.client.Incr(ctx, GenerationKey(kind)).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	return s.flushPrefix(ctx, KindPrefix(kind))
}

// FlushAll invalidates every cached catalog read.
func (s *Store) FlushAll(ctx context.Context) error {
	if err := s.client.Incr(ctx, keyGenerationCatalog).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	return s.flushPrefix(ctx, KeyPrefixCatalog)
}

func (s *Store) flushPrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	pipe := s.client.Pipeline()
	queued := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		queued++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache: %w", err)
	}
	if queued == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}
