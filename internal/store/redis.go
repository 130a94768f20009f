package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore implements DocumentStore on Redis.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, &Error{Op: "connect", Err: fmt.Errorf("ping %s: %w", cfg.Addr, err)}
	}

	return &RedisStore{rdb: rdb}, nil
}

// SaveDocument stores the document under the fixed key. No TTL: the document
// lives until the next run overwrites it.
func (s *RedisStore) SaveDocument(ctx context.Context, markdown string) error {
	if err := s.rdb.Set(ctx, DocumentKey, markdown, 0).Err(); err != nil {
		return &Error{Op: "set", Err: err}
	}
	return nil
}

// LoadDocument returns the stored document, or ErrNotFound.
func (s *RedisStore) LoadDocument(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, DocumentKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &Error{Op: "get", Err: err}
	}
	return val, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

var _ DocumentStore = (*RedisStore)(nil)
