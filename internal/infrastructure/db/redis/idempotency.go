package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which product a create Idempotency-Key produced,
// backed by Redis. Keys expire after idempotencyTTL.
// Key format: idem:create:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the product id previously recorded for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records that key produced productID (expires after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, key, productID string) error {
	return s.client.Set(ctx, s.key(key), productID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:create:" + key
}
