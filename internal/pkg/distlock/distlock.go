// Package distlock provides the distributed lock that keeps a digest run
// single-writer when multiple worker instances are deployed. Redis is the
// preferred backend; PostgreSQL advisory locks are the fallback so a
// Redis outage never allows double-sending.
package distlock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is the interface for distributed locking. A Lock instance is for
// use from a single goroutine; concurrent runs need separate instances.
type Lock interface {
	// Acquire tries to take the lock without blocking. True on success.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if this instance still owns it.
	Release(ctx context.Context) error
}

// New creates a lock using the best available backend. A non-nil Redis
// client wins (TTL-based, works across hosts sharing no database);
// otherwise a PostgreSQL advisory lock on the recipe store is used.
func New(redisClient *redis.Client, db *sql.DB, key string, ttl time.Duration) Lock {
	if redisClient != nil {
		return NewRedisLock(redisClient, key, ttl)
	}
	return NewPGAdvisoryLock(db, key)
}

// PGAdvisoryLock implements Lock using pg_try_advisory_lock /
// pg_advisory_unlock. The lock is session-scoped: if the worker's
// connection drops mid-run, PostgreSQL releases it, which parallels the
// Redis TTL expiry.
type PGAdvisoryLock struct {
	db     *sql.DB
	lockID int64
}

// NewPGAdvisoryLock derives a deterministic advisory lock ID from key.
func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &PGAdvisoryLock{db: db, lockID: int64(h.Sum64())}
}

// Acquire tries to take the advisory lock. Non-blocking.
func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	var acquired bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired)
	if err != nil {
		return false, fmt.Errorf("acquiring advisory lock %d: %w", l.lockID, err)
	}
	return acquired, nil
}

// Release releases the advisory lock.
func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	var released bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID).Scan(&released)
	if err != nil {
		return fmt.Errorf("releasing advisory lock %d: %w", l.lockID, err)
	}
	return nil
}
