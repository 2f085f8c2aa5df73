package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlacklistStore keeps revoked credentials in Redis. Entries carry a TTL
// matching the remaining validity of the credential, so the set decays
// naturally and never needs explicit cleanup.
type BlacklistStore struct {
	client *redis.Client
}

// NewBlacklistStore creates a new BlacklistStore.
func NewBlacklistStore(client *redis.Client) *BlacklistStore {
	return &BlacklistStore{client: client}
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// Add marks the token as revoked until ttl elapses. Re-adding an already
// revoked token just refreshes the entry, so revocation is idempotent.
func (s *BlacklistStore) Add(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// Contains reports whether the token has been revoked.
func (s *BlacklistStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
