package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisBackend(client, "bk"), mr
}

func TestRedisBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, mr := newTestRedisBackend(t)

	if err := backend.Set(ctx, RecordToken, []byte("tok"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := backend.Get(ctx, RecordToken)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "tok" {
		t.Fatalf("unexpected value %q", got)
	}

	// Keys are namespaced under the prefix.
	if !mr.Exists("bk:" + RecordToken) {
		t.Fatal("expected prefixed key in redis")
	}
}

func TestRedisBackendAbsentIsNotFound(t *testing.T) {
	backend, _ := newTestRedisBackend(t)
	if _, err := backend.Get(context.Background(), RecordIdentity); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisBackendTTLExpiry(t *testing.T) {
	ctx := context.Background()
	backend, mr := newTestRedisBackend(t)

	if err := backend.Set(ctx, RecordToken, []byte("tok"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := backend.Get(ctx, RecordToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired record to read as absent, got %v", err)
	}
}

func TestRedisBackendDownWrapsUnavailable(t *testing.T) {
	ctx := context.Background()
	backend, mr := newTestRedisBackend(t)
	mr.Close()

	if _, err := backend.Get(ctx, RecordToken); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if err := backend.Set(ctx, RecordToken, []byte("tok"), time.Hour); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable on set, got %v", err)
	}
}
