package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLock_AcquireRelease(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	lock := NewRedisLock(client, "digest:daily", time.Minute)

	ok, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if !ok {
		t.Fatal("Acquire() = false, want true on free lock")
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release() error: %v", err)
	}

	// Lock should be free again
	ok, err = lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("re-Acquire() error: %v", err)
	}
	if !ok {
		t.Error("re-Acquire() = false, want true after release")
	}
}

func TestRedisLock_Contention(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	first := NewRedisLock(client, "digest:daily", time.Minute)
	second := NewRedisLock(client, "digest:daily", time.Minute)

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first Acquire() = %v, %v", ok, err)
	}

	ok, err = second.Acquire(ctx)
	if err != nil {
		t.Fatalf("second Acquire() error: %v", err)
	}
	if ok {
		t.Error("second Acquire() = true, want false while held")
	}
}

func TestRedisLock_ReleaseOnlyOwn(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	owner := NewRedisLock(client, "digest:daily", time.Minute)
	intruder := NewRedisLock(client, "digest:daily", time.Minute)

	if ok, _ := owner.Acquire(ctx); !ok {
		t.Fatal("owner could not acquire")
	}

	// Releasing a lock we don't own must be a no-op
	if err := intruder.Release(ctx); err != nil {
		t.Fatalf("intruder Release() error: %v", err)
	}

	if ok, _ := intruder.Acquire(ctx); ok {
		t.Error("lock was freed by a non-owner release")
	}
}

func TestNew_PicksBackend(t *testing.T) {
	client := setupRedis(t)

	if _, ok := New(client, nil, "k", time.Minute).(*RedisLock); !ok {
		t.Error("New() with redis client should return *RedisLock")
	}
	if _, ok := New(nil, nil, "k", time.Minute).(*PGAdvisoryLock); !ok {
		t.Error("New() without redis client should return *PGAdvisoryLock")
	}
}
