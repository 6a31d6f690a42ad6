// Package dedup tracks which posts have already been turned into videos so
// reruns and overlapping collectors never process a post twice.
package dedup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenConfig configures the Redis connection and key layout.
type SeenConfig struct {
	Addr      string // e.g. localhost:6379
	Password  string
	DB        int
	KeyPrefix string // prefix for per-post keys
	TTL       time.Duration
}

// SeenStore is a Redis-backed set of processed post ids. Each post gets its
// own key with a TTL so old entries age out on their own.
type SeenStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSeenStoreFromEnv creates a SeenStore using environment variables
// REDIS_ADDR, REDIS_PASS, REDIS_DB (optional), SEEN_KEY_PREFIX (optional),
// SEEN_TTL_SECONDS (optional).
func NewSeenStoreFromEnv() (*SeenStore, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	pass := os.Getenv("REDIS_PASS")
	db := 0
	if d := os.Getenv("REDIS_DB"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			db = v
		}
	}
	prefix := os.Getenv("SEEN_KEY_PREFIX")
	if prefix == "" {
		prefix = "posts:seen"
	}
	ttl := 7 * 24 * time.Hour
	if t := os.Getenv("SEEN_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	return NewSeenStore(SeenConfig{Addr: addr, Password: pass, DB: db, KeyPrefix: prefix, TTL: ttl})
}

// NewSeenStore creates a SeenStore and verifies connectivity.
func NewSeenStore(cfg SeenConfig) (*SeenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &SeenStore{client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (s *SeenStore) Close() error {
	return s.client.Close()
}

// Seen reports whether the post has already been processed.
func (s *SeenStore) Seen(ctx context.Context, postID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(postID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mark records the post as processed for the configured TTL.
func (s *SeenStore) Mark(ctx context.Context, postID string) error {
	return s.client.Set(ctx, s.key(postID), time.Now().UTC().Format(time.RFC3339), s.ttl).Err()
}

func (s *SeenStore) key(postID string) string {
	return s.prefix + ":" + postID
}
