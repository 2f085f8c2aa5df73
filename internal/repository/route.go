package repository

import (
	"context"

	"tripbook/internal/domain"
)

// RouteRepository defines the persistence operations for routes. Routes
// are immutable, so there is no update.
type RouteRepository interface {
	// Create persists a new route.
	Create(ctx context.Context, route *domain.Route) error

	// GetByID retrieves a route by ID.
	GetByID(ctx context.Context, id string) (*domain.Route, error)

	// GetAll retrieves all routes.
	GetAll(ctx context.Context) ([]*domain.Route, error)
}
