package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"tripbook/internal/domain"
	"tripbook/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
// It holds *sql.DB rather than a Querier because the lifecycle operations
// open their own transactions.
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create persists a new pending trip and debits the owning account as one
// transaction. SELECT ... FOR UPDATE on the account row serializes
// concurrent creates for the same account, so the admission guard and the
// debit cannot race.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`,
		trip.AccountID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}

	var hasOpenTrip bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM trips WHERE account_id = $1 AND status IN ($2, $3))`,
		trip.AccountID, domain.TripStatusPending, domain.TripStatusActive,
	).Scan(&hasOpenTrip)
	if err != nil {
		return err
	}

	if hasOpenTrip {
		return repository.ErrActiveTripExists
	}

	if balance.LessThan(trip.Price) {
		return repository.ErrInsufficientFunds
	}

	if err = NewAccountRepositoryWithTx(tx).Debit(ctx, trip.AccountID, trip.Price); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, account_id, route_id, price, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		trip.ID,
		trip.AccountID,
		trip.RouteID,
		trip.Price,
		trip.Status,
		trip.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, account_id, route_id, price, status, created_at
		FROM trips WHERE id = $1
	`

	var trip domain.Trip
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.AccountID,
		&trip.RouteID,
		&trip.Price,
		&trip.Status,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// List retrieves trips newest-first, optionally filtered by status.
func (r *TripRepository) List(ctx context.Context, status *domain.TripStatus) ([]*domain.Trip, error) {
	query := `
		SELECT id, account_id, route_id, price, status, created_at
		FROM trips
	`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.AccountID,
			&trip.RouteID,
			&trip.Price,
			&trip.Status,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	return trips, rows.Err()
}

// TransitionStatus compare-and-sets the trip status.
func (r *TripRepository) TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) error {
	return r.compareAndSetStatus(ctx, r.db, id, from, to)
}

// CancelWithRefund compare-and-sets the trip to canceled and credits the
// snapshot price back to the owner in one transaction. When the
// compare-and-set loses a race the transaction rolls back without touching
// the balance, so a trip can never be refunded twice.
func (r *TripRepository) CancelWithRefund(ctx context.Context, trip *domain.Trip, from domain.TripStatus) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.compareAndSetStatus(ctx, tx, trip.ID, from, domain.TripStatusCanceled); err != nil {
		return err
	}

	if err = NewAccountRepositoryWithTx(tx).Credit(ctx, trip.AccountID, trip.Price); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *TripRepository) compareAndSetStatus(ctx context.Context, q Querier, id string, from, to domain.TripStatus) error {
	result, err := q.ExecContext(ctx,
		`UPDATE trips SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrStatusConflict
	}

	return nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
