package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingBonus is credited to every account at registration.
var StartingBonus = decimal.RequireFromString("50.00")

// Account represents a rider with a prepaid balance.
type Account struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Balance      decimal.Decimal
	CreatedAt    time.Time
}
