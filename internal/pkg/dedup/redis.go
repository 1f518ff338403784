package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cursorKey = "surepulse:cursor"

// RedisStore is the backing Store, fronted by a local cache per spec
// §4.3's "two-level cache MAY be used" allowance. Grounded on the
// teacher's internal/pkg/storage/redis.go for client construction and
// key-building; the odds-snapshot methods that file also carried are
// out of scope here (see DESIGN.md).
type RedisStore struct {
	client *redis.Client
	local  *localCache
}

// Config configures the Redis connection and the local cache layer.
type Config struct {
	Addr           string
	Password       string
	DB             int
	LocalCacheSize int // capacity of the local front cache; 0 uses a sane default
}

// NewRedisStore connects to addr and verifies reachability with a ping.
func NewRedisStore(ctx context.Context, cfg Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("dedup: connecting to redis at %s: %w", cfg.Addr, err)
	}
	size := cfg.LocalCacheSize
	if size <= 0 {
		size = 4096
	}
	return &RedisStore{client: client, local: newLocalCache(size)}, nil
}

// ExistsAny checks the local cache first for each key; any local hit
// short-circuits the whole call. Otherwise it issues one batched
// EXISTS against Redis for the keys the local cache missed.
func (s *RedisStore) ExistsAny(ctx context.Context, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	now := time.Now()
	remaining := make([]string, 0, len(keys))
	for _, k := range keys {
		if s.local.has(k, now) {
			return true, nil
		}
		remaining = append(remaining, k)
	}
	if len(remaining) == 0 {
		return false, nil
	}
	n, err := s.client.Exists(ctx, remaining...).Result()
	if err != nil {
		return false, fmt.Errorf("dedup: checking existence of %d keys: %w", len(remaining), err)
	}
	return n > 0, nil
}

// Record always issues the write to Redis, whatever the local cache
// holds. SET NX leaves an already-present key and its TTL untouched, so
// entries are never refreshed. The local cache is updated only after the
// backing-store write succeeds, so it never suppresses a write for a key
// that isn't actually durable yet.
func (s *RedisStore) Record(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	written, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("dedup: recording key %q: %w", key, err)
	}
	if written {
		s.local.set(key, time.Now().Add(ttl))
	}
	return nil
}

func (s *RedisStore) SaveCursor(ctx context.Context, cursor string) error {
	if err := s.client.Set(ctx, cursorKey, cursor, 0).Err(); err != nil {
		return fmt.Errorf("dedup: saving cursor: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadCursor(ctx context.Context) (string, bool, error) {
	cursor, err := s.client.Get(ctx, cursorKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("dedup: loading cursor: %w", err)
	}
	return cursor, true, nil
}

// Close releases the underlying Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
