package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when a write needs Redis and no client is configured.
var ErrUnavailable = errors.New("redis unavailable")

const revocationPrefix = "blacklist:"

// RevocationStore records revoked token ids until the token would have expired.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore wraps client; a nil client yields a store that revokes nothing.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke marks jti as revoked for ttl.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return ErrUnavailable
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, revocationPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether jti has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s == nil || s.client == nil || jti == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, revocationPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
