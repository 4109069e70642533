package distlock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLock implements Lock with SET NX plus a TTL. A random ownership
// token and a Lua-scripted release prevent one worker from deleting a
// lock another worker has since acquired.
type RedisLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// NewRedisLock creates a Redis-backed lock. The TTL should comfortably
// exceed the longest expected digest run so the lock cannot expire under
// an active runner.
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	b := make([]byte, 16)
	rand.Read(b)
	return &RedisLock{
		client: client,
		key:    "lock:" + key,
		token:  hex.EncodeToString(b),
		ttl:    ttl,
	}
}

// Acquire tries to take the lock. Non-blocking; true on success.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring lock %s: %w", l.key, err)
	}
	return ok, nil
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Release deletes the lock only if this instance still owns it.
func (l *RedisLock) Release(ctx context.Context) error {
	_, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Result()
	return err
}
