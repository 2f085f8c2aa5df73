package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tripbook/internal/domain"
	"tripbook/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, origin, destination, price, duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.Origin,
		route.Destination,
		route.Price,
		route.DurationMinutes,
		route.CreatedAt,
	)

	return err
}

// GetByID retrieves a route by ID.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `
		SELECT id, origin, destination, price, duration_minutes, created_at
		FROM routes WHERE id = $1
	`

	var route domain.Route
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&route.ID,
		&route.Origin,
		&route.Destination,
		&route.Price,
		&route.DurationMinutes,
		&route.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &route, nil
}

// GetAll retrieves all routes.
func (r *RouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	query := `
		SELECT id, origin, destination, price, duration_minutes, created_at
		FROM routes ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*domain.Route
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(
			&route.ID,
			&route.Origin,
			&route.Destination,
			&route.Price,
			&route.DurationMinutes,
			&route.CreatedAt,
		); err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}

	return routes, rows.Err()
}

// Ensure RouteRepository implements repository.RouteRepository.
var _ repository.RouteRepository = (*RouteRepository)(nil)
