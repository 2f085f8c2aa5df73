package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"tripbook/internal/domain"
	internalRedis "tripbook/internal/redis"
	"tripbook/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ACCOUNT REPOSITORY
// ──────────────────────────────────────────────

// MockAccountRepository is a mock implementation of AccountRepository.
// Debit and Credit hold the same lock as reads, so the check-and-decrement
// contract matches the real store.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	// Counters for verification
	DebitCallCount  int32
	CreditCallCount int32

	// Error injection
	CreateError error
}

// NewMockAccountRepository creates a new mock account repository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// AddAccount adds an account to the mock repository.
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *account
	return &copy, nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockAccountRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if account.Balance.LessThan(amount) {
		return repository.ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(amount)
	return nil
}

func (m *MockAccountRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Balance = account.Balance.Add(amount)
	return nil
}

// GetAccount returns the account for test assertions.
func (m *MockAccountRepository) GetAccount(id string) *domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accounts[id]
}

// Ensure MockAccountRepository implements repository.AccountRepository.
var _ repository.AccountRepository = (*MockAccountRepository)(nil)

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Counters for verification
	GetByIDCallCount int32
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Route, 0, len(m.routes))
	for _, r := range m.routes {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

// Ensure MockRouteRepository implements repository.RouteRepository.
var _ repository.RouteRepository = (*MockRouteRepository)(nil)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository. It keeps
// a reference to the account repository so the guard+debit+insert and
// compare-and-set+refund units stay atomic under its own lock, matching
// the transactional contract of the real store.
type MockTripRepository struct {
	mu       sync.Mutex
	trips    map[string]*domain.Trip
	accounts *MockAccountRepository

	// Counters for verification
	CreateCallCount int32
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository(accounts *MockAccountRepository) *MockTripRepository {
	return &MockTripRepository{
		trips:    make(map[string]*domain.Trip),
		accounts: accounts,
	}
}

// AddTrip adds a trip to the mock repository without touching balances.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.accounts.GetByID(ctx, trip.AccountID); err != nil {
		return err
	}

	for _, t := range m.trips {
		if t.AccountID == trip.AccountID && !t.Status.IsTerminal() {
			return repository.ErrActiveTripExists
		}
	}

	if err := m.accounts.Debit(ctx, trip.AccountID, trip.Price); err != nil {
		return err
	}

	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) List(ctx context.Context, status *domain.TripStatus) ([]*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if status != nil && t.Status != *status {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockTripRepository) TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	if trip.Status != from {
		return repository.ErrStatusConflict
	}
	trip.Status = to
	return nil
}

func (m *MockTripRepository) CancelWithRefund(ctx context.Context, trip *domain.Trip, from domain.TripStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.trips[trip.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrStatusConflict
	}
	if err := m.accounts.Credit(ctx, trip.AccountID, trip.Price); err != nil {
		return err
	}
	stored.Status = domain.TripStatusCanceled
	return nil
}

// GetTrip returns the trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trips[id]
}

// CountTrips returns the number of trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

// Ensure MockTripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*MockTripRepository)(nil)

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockBlacklistStore is an in-memory revocation set with TTL semantics.
type MockBlacklistStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

// NewMockBlacklistStore creates a new mock blacklist store.
func NewMockBlacklistStore() *MockBlacklistStore {
	return &MockBlacklistStore{expires: make(map[string]time.Time)}
}

func (m *MockBlacklistStore) Add(ctx context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[token] = time.Now().Add(ttl)
	return nil
}

func (m *MockBlacklistStore) Contains(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deadline, ok := m.expires[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(m.expires, token)
		return false, nil
	}
	return true, nil
}

// Ensure MockBlacklistStore implements the blacklist interface.
var _ internalRedis.BlacklistStoreInterface = (*MockBlacklistStore)(nil)

// MockRouteCache is an in-memory route cache.
type MockRouteCache struct {
	mu     sync.Mutex
	routes map[string]*internalRedis.CachedRoute

	// Counters for verification
	HitCount int32
}

// NewMockRouteCache creates a new mock route cache.
func NewMockRouteCache() *MockRouteCache {
	return &MockRouteCache{routes: make(map[string]*internalRedis.CachedRoute)}
}

func (m *MockRouteCache) GetRoute(ctx context.Context, routeID string) (*internalRedis.CachedRoute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	route, ok := m.routes[routeID]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	copy := *route
	return &copy, nil
}

func (m *MockRouteCache) SetRoute(ctx context.Context, route *internalRedis.CachedRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

// Ensure MockRouteCache implements the cache interface.
var _ internalRedis.RouteCacheInterface = (*MockRouteCache)(nil)
