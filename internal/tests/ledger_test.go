package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tripbook/internal/domain"
	"tripbook/internal/repository"
	"tripbook/internal/service"
)

func seedAccount(repo *MockAccountRepository, id, balance string) {
	repo.AddAccount(&domain.Account{
		ID:        id,
		Email:     id + "@example.com",
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: time.Now(),
	})
}

func TestLedgerDebitAndCredit(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	seedAccount(accountRepo, "acc-1", "50.00")
	svc := service.NewLedgerService(accountRepo)
	ctx := context.Background()

	if err := svc.Debit(ctx, "acc-1", decimal.RequireFromString("12.50")); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if err := svc.Credit(ctx, "acc-1", decimal.RequireFromString("5.00")); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	account := accountRepo.GetAccount("acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("expected balance 42.50, got %s", account.Balance)
	}
}

func TestLedgerRoundsAmounts(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	seedAccount(accountRepo, "acc-1", "50.00")
	svc := service.NewLedgerService(accountRepo)

	// 10.005 rounds to 10.01 before hitting storage.
	if err := svc.Debit(context.Background(), "acc-1", decimal.RequireFromString("10.005")); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}

	account := accountRepo.GetAccount("acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("39.99")) {
		t.Errorf("expected balance 39.99, got %s", account.Balance)
	}
}

func TestLedgerInsufficientFunds(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	seedAccount(accountRepo, "acc-1", "10.00")
	svc := service.NewLedgerService(accountRepo)

	err := svc.Debit(context.Background(), "acc-1", decimal.RequireFromString("10.01"))
	if !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// A failed debit must not touch the balance.
	account := accountRepo.GetAccount("acc-1")
	if !account.Balance.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("balance changed on failed debit: %s", account.Balance)
	}
}

func TestLedgerExactBalanceDebit(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	seedAccount(accountRepo, "acc-1", "10.00")
	svc := service.NewLedgerService(accountRepo)

	if err := svc.Debit(context.Background(), "acc-1", decimal.RequireFromString("10.00")); err != nil {
		t.Fatalf("debit to exactly zero should succeed: %v", err)
	}

	account := accountRepo.GetAccount("acc-1")
	if !account.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", account.Balance)
	}
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	seedAccount(accountRepo, "acc-1", "50.00")
	svc := service.NewLedgerService(accountRepo)
	ctx := context.Background()

	for _, amount := range []string{"0", "-1.00"} {
		if err := svc.Debit(ctx, "acc-1", decimal.RequireFromString(amount)); !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("Debit(%s): expected ErrInvalidAmount, got %v", amount, err)
		}
		if err := svc.Credit(ctx, "acc-1", decimal.RequireFromString(amount)); !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("Credit(%s): expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestLedgerUnknownAccount(t *testing.T) {
	t.Parallel()

	svc := service.NewLedgerService(NewMockAccountRepository())
	ctx := context.Background()

	if err := svc.Debit(ctx, "ghost", decimal.RequireFromString("1.00")); !errors.Is(err, service.ErrAccountNotFound) {
		t.Errorf("Debit: expected ErrAccountNotFound, got %v", err)
	}
	if err := svc.Credit(ctx, "ghost", decimal.RequireFromString("1.00")); !errors.Is(err, service.ErrAccountNotFound) {
		t.Errorf("Credit: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.GetAccount(ctx, "ghost"); !errors.Is(err, service.ErrAccountNotFound) {
		t.Errorf("GetAccount: expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerConcurrentDebits(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	seedAccount(accountRepo, "acc-1", "50.00")
	svc := service.NewLedgerService(accountRepo)

	// 10 concurrent debits of 10.00 against 50.00: exactly 5 can succeed.
	const workers = 10
	amount := decimal.RequireFromString("10.00")

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Debit(context.Background(), "acc-1", amount)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 5 || rejected != 5 {
		t.Errorf("expected 5 successes and 5 rejections, got %d/%d", succeeded, rejected)
	}

	account := accountRepo.GetAccount("acc-1")
	if !account.Balance.IsZero() {
		t.Errorf("expected final balance 0, got %s", account.Balance)
	}
}
