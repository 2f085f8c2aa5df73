package repository

import (
	"context"

	"tripbook/internal/domain"
)

// TripRepository defines the persistence operations for trips.
//
// Create, TransitionStatus and CancelWithRefund are the three atomic units
// of the trip lifecycle: implementations must guarantee that no partial
// effect (a trip without its debit, a refund without its status change)
// is ever persisted or observed.
type TripRepository interface {
	// Create persists a new pending trip and debits the owning account by
	// trip.Price as one atomic unit. The admission guard is part of the
	// same unit: if the account already owns a pending or active trip the
	// call fails with ErrActiveTripExists and nothing is written. Returns
	// ErrNotFound if the account does not exist and ErrInsufficientFunds
	// if the balance cannot cover the price.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// List retrieves trips ordered newest-first by creation time,
	// optionally filtered by status (nil means all).
	List(ctx context.Context, status *domain.TripStatus) ([]*domain.Trip, error)

	// TransitionStatus compare-and-sets the trip status from -> to.
	// Returns ErrStatusConflict if the trip is no longer in the expected
	// status, ErrNotFound if it does not exist.
	TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) error

	// CancelWithRefund compare-and-sets the trip status from -> canceled
	// and credits trip.Price back to trip.AccountID in the same atomic
	// unit. A failed compare-and-set (ErrStatusConflict) performs no
	// credit, so at most one refund is ever applied per trip.
	CancelWithRefund(ctx context.Context, trip *domain.Trip, from domain.TripStatus) error
}
