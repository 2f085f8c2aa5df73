package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// RouteCacheTTL is generous because routes are immutable after creation;
// the cache only ever drops entries, it never serves stale data.
const RouteCacheTTL = time.Hour

const routeCachePrefix = "cache:route:"

// CachedRoute represents a cached route entity.
type CachedRoute struct {
	ID              string `json:"id"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

// GetRoute retrieves a route from cache. Returns nil on a cache miss.
func (s *CacheStore) GetRoute(ctx context.Context, routeID string) (*CachedRoute, error) {
	key := routeCachePrefix + routeID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var route CachedRoute
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// SetRoute stores a route in cache.
func (s *CacheStore) SetRoute(ctx context.Context, route *CachedRoute) error {
	key := routeCachePrefix + route.ID
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, RouteCacheTTL).Err()
}
