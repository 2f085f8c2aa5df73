package redis

import (
	"context"
	"time"
)

// BlacklistStoreInterface defines the interface for credential revocation.
type BlacklistStoreInterface interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// RouteCacheInterface defines the interface for route caching.
type RouteCacheInterface interface {
	GetRoute(ctx context.Context, routeID string) (*CachedRoute, error)
	SetRoute(ctx context.Context, route *CachedRoute) error
}

// Ensure concrete types implement interfaces.
var (
	_ BlacklistStoreInterface = (*BlacklistStore)(nil)
	_ RouteCacheInterface     = (*CacheStore)(nil)
)
