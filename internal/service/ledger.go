package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tripbook/internal/domain"
	"tripbook/internal/repository"
)

// LedgerService owns the spendable balance of each account. All amounts
// are rounded to 2 decimal places before storage.
type LedgerService struct {
	accountRepo repository.AccountRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo repository.AccountRepository) *LedgerService {
	return &LedgerService{accountRepo: accountRepo}
}

// Debit atomically decrements the balance by amount. Fails with
// repository.ErrInsufficientFunds if the balance cannot cover it.
func (s *LedgerService) Debit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if accountID == "" {
		return ErrInvalidAccountID
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	err := s.accountRepo.Debit(ctx, accountID, amount.Round(2))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}

// Credit atomically increments the balance by amount.
func (s *LedgerService) Credit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if accountID == "" {
		return ErrInvalidAccountID
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	err := s.accountRepo.Credit(ctx, accountID, amount.Round(2))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}

// GetAccount retrieves an account with its current balance.
func (s *LedgerService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return account, nil
}
