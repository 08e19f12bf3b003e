// Package revocation tracks access tokens that must no longer be accepted.
package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blacklist:access:"

// Store keeps revoked tokens in Redis until they expire. A Store without a
// client revokes nothing.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Revoke marks token as revoked for ttl. No-op without a Redis client.
func (s *Store) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Set(ctx, keyPrefix+token, "1", ttl).Err()
}

// IsRevoked reports whether token was revoked and has not expired yet.
func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	n, err := s.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
