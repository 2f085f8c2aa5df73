package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a computed price and duration for a prospective trip.
// It is ephemeral unless persisted as a Route.
type Quote struct {
	Origin          string
	Destination     string
	Price           decimal.Decimal
	DurationMinutes int
}

// Route is a persisted quote. Routes are immutable after creation.
type Route struct {
	ID              string
	Origin          string
	Destination     string
	Price           decimal.Decimal
	DurationMinutes int
	CreatedAt       time.Time
}
