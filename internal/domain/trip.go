package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPending   TripStatus = "pending"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCanceled  TripStatus = "canceled"
)

// allowedTransitions is the full trip state machine. Anything not listed
// here is forbidden.
var allowedTransitions = map[TripStatus][]TripStatus{
	TripStatusPending: {TripStatusActive, TripStatusCanceled},
	TripStatusActive:  {TripStatusCompleted, TripStatusCanceled},
}

// ValidStatus reports whether s is one of the known trip statuses.
func ValidStatus(s TripStatus) bool {
	switch s {
	case TripStatusPending, TripStatusActive, TripStatusCompleted, TripStatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether s is a terminal status. Terminal trips are
// immutable.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCanceled
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to TripStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Trip represents a committed trip in the system. AccountID, RouteID and
// Price are set at creation and never change; Price is a snapshot of the
// route price at creation time so a later refund reverses exactly what was
// charged.
type Trip struct {
	ID        string
	AccountID string
	RouteID   string
	Price     decimal.Decimal
	Status    TripStatus
	CreatedAt time.Time
}
