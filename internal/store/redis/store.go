package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultScanCount is the COUNT hint passed to SCAN when none is configured.
const DefaultScanCount = 100

// Store is a kv.Store on top of a Redis client.
// Values are written without TTL.
type Store struct {
	client    redis.UniversalClient
	scanCount int64
}

// NewStore creates a new Redis store. scanCount <= 0 uses DefaultScanCount.
func NewStore(client redis.UniversalClient, scanCount int) *Store {
	if scanCount <= 0 {
		scanCount = DefaultScanCount
	}
	return &Store{
		client:    client,
		scanCount: int64(scanCount),
	}
}

// Get retrieves the value at key. A missing key is reported as found=false.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, true, nil
}

// Put stores value at key with no expiry.
func (s *Store) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. DEL on a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// List walks the keyspace with SCAN and returns keys under prefix.
// SCAN may return a key more than once across iterations, so results are
// de-duplicated while keeping first-seen order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	iter := s.client.Scan(ctx, 0, MatchPattern(prefix), s.scanCount).Iterator()

	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for iter.Next(ctx) {
		k := iter.Val()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s*: %w", prefix, err)
	}
	return keys, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
