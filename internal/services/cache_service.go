// internal/services/cache_service.go
// Redis-backed caching: exported session snapshots (the hot read path,
// rewritten on every evaluation round), analytics aggregates, and the
// rate limiter's counters.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService handles all caching operations
type CacheService struct {
	client *redis.Client
	logger *log.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(client *redis.Client, logger *log.Logger) *CacheService {
	return &CacheService{
		client: client,
		logger: logger,
	}
}

func snapshotKey(sessionID string) string {
	return "session_" + sessionID
}

// CacheSnapshot stores a session's exported snapshot verbatim. The
// bytes are already the canonical JSON the engine produced, so they
// go in raw rather than through another marshal pass.
func (s *CacheService) CacheSnapshot(sessionID string, snapshot []byte, expiration time.Duration) error {
	ctx := context.Background()

	if err := s.client.Set(ctx, snapshotKey(sessionID), snapshot, expiration).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}

// CachedSnapshot returns the cached snapshot bytes for a session, or
// nil when the entry is missing or expired.
func (s *CacheService) CachedSnapshot(sessionID string) ([]byte, error) {
	ctx := context.Background()

	data, err := s.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached snapshot: %w", err)
	}
	return data, nil
}

// InvalidateSnapshot drops a session's cached snapshot, forcing the
// next read through to the document store.
func (s *CacheService) InvalidateSnapshot(sessionID string) error {
	ctx := context.Background()

	if err := s.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}

// Set stores a JSON-encoded value in cache with expiration
func (s *CacheService) Set(key string, value interface{}, expiration time.Duration) error {
	ctx := context.Background()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Get retrieves a JSON-encoded value from cache
func (s *CacheService) Get(key string, dest interface{}) error {
	ctx := context.Background()

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("key not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// Increment increments a counter in cache
func (s *CacheService) Increment(key string, expiration time.Duration) (int, error) {
	ctx := context.Background()

	// Use pipeline for atomic operation
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiration)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to increment: %w", err)
	}

	return int(incr.Val()), nil
}
