package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// dedupTTL keeps last-body hashes around long enough to cover the next
// daily run with slack, then lets them expire on their own.
const dedupTTL = 48 * time.Hour

// RedisDedupStore implements digest.DedupStore on Redis. It backs the
// opt-in unchanged-digest skip; losing its contents only means the next
// run sends digests that might have been skipped.
type RedisDedupStore struct {
	client *redis.Client
}

// NewRedisDedupStore creates a dedup store on the given client.
func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

func dedupKey(userID int64) string {
	return fmt.Sprintf("digest:lastbody:%d", userID)
}

// Unchanged reports whether bodyHash matches the stored hash for userID.
// A missing key means no previous digest is known, never an error.
func (s *RedisDedupStore) Unchanged(ctx context.Context, userID int64, bodyHash string) (bool, error) {
	stored, err := s.client.Get(ctx, dedupKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading digest hash for user %d: %w", userID, err)
	}
	return stored == bodyHash, nil
}

// Remember stores bodyHash as the latest digest delivered to userID.
func (s *RedisDedupStore) Remember(ctx context.Context, userID int64, bodyHash string) error {
	if err := s.client.Set(ctx, dedupKey(userID), bodyHash, dedupTTL).Err(); err != nil {
		return fmt.Errorf("storing digest hash for user %d: %w", userID, err)
	}
	return nil
}
