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

type tripFixture struct {
	svc         *service.TripService
	accountRepo *MockAccountRepository
	routeRepo   *MockRouteRepository
	tripRepo    *MockTripRepository
}

func newTripFixture() *tripFixture {
	accountRepo := NewMockAccountRepository()
	routeRepo := NewMockRouteRepository()
	tripRepo := NewMockTripRepository(accountRepo)
	quoteService := service.NewQuoteService(routeRepo, NewMockRouteCache())
	svc := service.NewTripService(tripRepo, accountRepo, quoteService, service.NewNotificationService())
	return &tripFixture{
		svc:         svc,
		accountRepo: accountRepo,
		routeRepo:   routeRepo,
		tripRepo:    tripRepo,
	}
}

func (f *tripFixture) seedRoute(id, price string) {
	f.routeRepo.AddRoute(&domain.Route{
		ID:              id,
		Origin:          "Downtown",
		Destination:     "Airport",
		Price:           decimal.RequireFromString(price),
		DurationMinutes: 15,
		CreatedAt:       time.Now(),
	})
}

func (f *tripFixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account := f.accountRepo.GetAccount(accountID)
	if account == nil {
		t.Fatalf("account %s not found", accountID)
	}
	return account.Balance
}

func TestCreateTripDebitsSnapshotPrice(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "12.50")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if trip.Status != domain.TripStatusPending {
		t.Errorf("expected pending status, got %s", trip.Status)
	}
	if !trip.Price.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("expected price snapshot 12.50, got %s", trip.Price)
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("37.50")) {
		t.Errorf("expected balance 37.50 after debit, got %s", got)
	}
}

func TestCreateTripRouteNotFound(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")

	_, err := f.svc.Create(context.Background(), service.CreateTripRequest{AccountID: "acc-1", RouteID: "ghost"})
	if !errors.Is(err, service.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("balance changed on failed create: %s", got)
	}
}

func TestCreateTripAccountNotFound(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.seedRoute("route-1", "10.00")

	_, err := f.svc.Create(context.Background(), service.CreateTripRequest{AccountID: "ghost", RouteID: "route-1"})
	if !errors.Is(err, service.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
	if f.tripRepo.CountTrips() != 0 {
		t.Error("trip created for unknown account")
	}
}

func TestCreateTripInsufficientFunds(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "5.00")
	f.seedRoute("route-1", "12.50")

	_, err := f.svc.Create(context.Background(), service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if f.tripRepo.CountTrips() != 0 {
		t.Error("trip created despite insufficient funds")
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("balance changed on failed create: %s", got)
	}
}

func TestCreateSecondTripBlocked(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "10.00")
	ctx := context.Background()

	req := service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"}
	if _, err := f.svc.Create(ctx, req); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := f.svc.Create(ctx, req)
	if !errors.Is(err, service.ErrTripInProgress) {
		t.Errorf("expected ErrTripInProgress, got %v", err)
	}

	// The guard blocks exactly one debit's worth.
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("expected balance 40.00, got %s", got)
	}
}

func TestCreateAfterCancelAllowed(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "10.00")
	ctx := context.Background()

	req := service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"}
	trip, err := f.svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.svc.CancelByOwner(ctx, trip.ID, "acc-1"); err != nil {
		t.Fatalf("CancelByOwner failed: %v", err)
	}

	// Terminal trips do not count against the admission guard.
	if _, err := f.svc.Create(ctx, req); err != nil {
		t.Fatalf("Create after cancel failed: %v", err)
	}
}

func TestConcurrentCreatesAdmitOne(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "10.00")

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, blocked int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrTripInProgress):
			blocked++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 || blocked != workers-1 {
		t.Errorf("expected 1 success and %d blocked, got %d/%d", workers-1, succeeded, blocked)
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("expected a single debit, balance %s", got)
	}
}

func TestOwnerCancelRefundsOnce(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "12.50")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	canceled, err := f.svc.CancelByOwner(ctx, trip.ID, "acc-1")
	if err != nil {
		t.Fatalf("CancelByOwner failed: %v", err)
	}
	if canceled.Status != domain.TripStatusCanceled {
		t.Errorf("expected canceled status, got %s", canceled.Status)
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected full refund to 50.00, got %s", got)
	}

	// A second cancel hits a terminal trip and must not refund again.
	if _, err := f.svc.CancelByOwner(ctx, trip.ID, "acc-1"); !errors.Is(err, service.ErrAlreadyFinal) {
		t.Errorf("expected ErrAlreadyFinal, got %v", err)
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("double refund detected: %s", got)
	}
}

func TestOwnerCancelForbiddenForOthers(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	seedAccount(f.accountRepo, "acc-2", "50.00")
	f.seedRoute("route-1", "10.00")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.svc.CancelByOwner(ctx, trip.ID, "acc-2"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestOwnerCannotCancelActiveTrip(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "10.00")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.svc.TransitionByOperator(ctx, trip.ID, domain.TripStatusActive); err != nil {
		t.Fatalf("transition to active failed: %v", err)
	}

	if _, err := f.svc.CancelByOwner(ctx, trip.ID, "acc-1"); !errors.Is(err, service.ErrCancellationBlocked) {
		t.Errorf("expected ErrCancellationBlocked, got %v", err)
	}

	// An active trip can still be canceled by the operator, with refund.
	if _, err := f.svc.TransitionByOperator(ctx, trip.ID, domain.TripStatusCanceled); err != nil {
		t.Fatalf("operator cancel failed: %v", err)
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected refund to 50.00, got %s", got)
	}
}

func TestFullLifecycleNoRefund(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "12.50")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.svc.TransitionByOperator(ctx, trip.ID, domain.TripStatusActive); err != nil {
		t.Fatalf("pending -> active failed: %v", err)
	}
	completed, err := f.svc.TransitionByOperator(ctx, trip.ID, domain.TripStatusCompleted)
	if err != nil {
		t.Fatalf("active -> completed failed: %v", err)
	}
	if completed.Status != domain.TripStatusCompleted {
		t.Errorf("expected completed status, got %s", completed.Status)
	}

	// Completion keeps the charge.
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("37.50")) {
		t.Errorf("expected balance 37.50, got %s", got)
	}

	// Completed trips are immutable.
	if _, err := f.svc.TransitionByOperator(ctx, trip.ID, domain.TripStatusCanceled); !errors.Is(err, service.ErrAlreadyFinal) {
		t.Errorf("expected ErrAlreadyFinal, got %v", err)
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "10.00")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// pending -> completed skips the active leg.
	if _, err := f.svc.TransitionByOperator(ctx, trip.ID, domain.TripStatusCompleted); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.svc.TransitionByOperator(ctx, trip.ID, "teleported"); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("unknown status: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.svc.TransitionByOperator(ctx, "ghost", domain.TripStatusActive); !errors.Is(err, service.ErrTripNotFound) {
		t.Errorf("unknown trip: expected ErrTripNotFound, got %v", err)
	}
}

func TestConcurrentCancelsRefundOnce(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "12.50")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const workers = 6
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.TransitionByOperator(ctx, trip.ID, domain.TripStatusCanceled)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, final int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrAlreadyFinal):
			final++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly one cancel to win, got %d", succeeded)
	}
	if f.accountRepo.CreditCallCount != 1 {
		t.Errorf("expected exactly one credit, got %d", f.accountRepo.CreditCallCount)
	}
	if got := f.balance(t, "acc-1"); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected balance restored to 50.00, got %s", got)
	}
}

func TestListTripsNewestFirstWithFilter(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "10.00")
	ctx := context.Background()

	base := time.Now()
	price := decimal.RequireFromString("10.00")
	f.tripRepo.AddTrip(&domain.Trip{
		ID: "trip-old", AccountID: "acc-1", RouteID: "route-1",
		Price: price, Status: domain.TripStatusCompleted, CreatedAt: base.Add(-2 * time.Hour),
	})
	f.tripRepo.AddTrip(&domain.Trip{
		ID: "trip-mid", AccountID: "acc-1", RouteID: "route-1",
		Price: price, Status: domain.TripStatusCanceled, CreatedAt: base.Add(-time.Hour),
	})
	f.tripRepo.AddTrip(&domain.Trip{
		ID: "trip-new", AccountID: "acc-1", RouteID: "route-1",
		Price: price, Status: domain.TripStatusCompleted, CreatedAt: base,
	})

	all, err := f.svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(all))
	}
	if all[0].Trip.ID != "trip-new" || all[2].Trip.ID != "trip-old" {
		t.Errorf("trips not sorted newest-first: %s, %s, %s", all[0].Trip.ID, all[1].Trip.ID, all[2].Trip.ID)
	}
	if all[0].Route == nil || all[0].Account == nil {
		t.Error("expected trips resolved with route and account")
	}

	completed := domain.TripStatusCompleted
	filtered, err := f.svc.List(ctx, &completed)
	if err != nil {
		t.Fatalf("filtered List failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 completed trips, got %d", len(filtered))
	}
	for _, d := range filtered {
		if d.Trip.Status != domain.TripStatusCompleted {
			t.Errorf("filter leaked status %s", d.Trip.Status)
		}
	}

	invalid := domain.TripStatus("warp")
	if _, err := f.svc.List(ctx, &invalid); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("invalid filter: expected ErrInvalidTransition, got %v", err)
	}
}

func TestGetTripResolvesRoute(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	seedAccount(f.accountRepo, "acc-1", "50.00")
	f.seedRoute("route-1", "10.00")
	ctx := context.Background()

	trip, err := f.svc.Create(ctx, service.CreateTripRequest{AccountID: "acc-1", RouteID: "route-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	details, err := f.svc.Get(ctx, trip.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if details.Trip.ID != trip.ID {
		t.Errorf("got trip %s, expected %s", details.Trip.ID, trip.ID)
	}
	if details.Route == nil || details.Route.ID != "route-1" {
		t.Error("expected route resolved on the trip")
	}

	if _, err := f.svc.Get(ctx, "ghost"); !errors.Is(err, service.ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound, got %v", err)
	}
}
