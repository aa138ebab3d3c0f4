package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend is a redis-backed [Backend]. Record expiry rides on native
// redis TTLs. Use it when several processes (workers, a CLI and a renderer)
// must share one operator session.
type RedisBackend struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisBackend creates a redis-backed [Backend]. prefix namespaces the
// record keys ("<prefix>:<name>").
func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "bk"
	}
	return &RedisBackend{redis: client, prefix: prefix}
}

func (r *RedisBackend) key(name string) string {
	return r.prefix + ":" + name
}

// Get returns the named record, [ErrNotFound] when absent, or an error
// wrapping [ErrBackendUnavailable] when redis is down.
func (r *RedisBackend) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return data, nil
}

// Set stores value under name for ttl. A non-positive ttl deletes the record.
func (r *RedisBackend) Set(ctx context.Context, name string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return r.Delete(ctx, name)
	}
	if err := r.redis.Set(ctx, r.key(name), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (r *RedisBackend) Delete(ctx context.Context, name string) error {
	if err := r.redis.Del(ctx, r.key(name)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}
