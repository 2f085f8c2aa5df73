package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"tripbook/internal/domain"
)

// AccountRepository defines the persistence operations for accounts.
type AccountRepository interface {
	// Create adds a new account. Returns ErrDuplicateEmail if the email is
	// already taken.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by email.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Debit atomically checks balance >= amount and decrements. The check
	// and decrement are a single step with respect to concurrent debits
	// and credits on the same account. Returns ErrInsufficientFunds if the
	// debit would drive the balance negative.
	Debit(ctx context.Context, id string, amount decimal.Decimal) error

	// Credit atomically increments the balance.
	Credit(ctx context.Context, id string, amount decimal.Decimal) error
}
