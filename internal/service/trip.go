package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tripbook/internal/domain"
	"tripbook/internal/repository"
)

// TripService drives the trip state machine and the money movement tied to
// it. The atomic units (guard+debit+insert, compare-and-set+refund) live in
// the repository; this layer owns validation, the transition table, and
// mapping storage conflicts back into the caller-facing taxonomy.
type TripService struct {
	tripRepo      repository.TripRepository
	accountRepo   repository.AccountRepository
	quoteService  *QuoteService
	notifications *NotificationService
}

// NewTripService creates a new TripService.
func NewTripService(
	tripRepo repository.TripRepository,
	accountRepo repository.AccountRepository,
	quoteService *QuoteService,
	notifications *NotificationService,
) *TripService {
	return &TripService{
		tripRepo:      tripRepo,
		accountRepo:   accountRepo,
		quoteService:  quoteService,
		notifications: notifications,
	}
}

// TripDetails is a trip resolved with its route, and with its account on
// listing paths.
type TripDetails struct {
	Trip    *domain.Trip
	Route   *domain.Route
	Account *domain.Account
}

// CreateTripRequest contains the parameters for committing a trip.
type CreateTripRequest struct {
	AccountID string
	RouteID   string
}

// Create commits a trip against the account's prepaid balance. The price
// charged is a snapshot of the route price at this moment. Guard check,
// debit and trip insert happen as one unit in the repository; on any
// failure no trip exists and no money has moved.
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.AccountID == "" {
		return nil, ErrInvalidAccountID
	}
	if req.RouteID == "" {
		return nil, ErrInvalidRouteID
	}

	route, err := s.quoteService.GetRoute(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.GetByID(ctx, req.AccountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	trip := &domain.Trip{
		ID:        uuid.New().String(),
		AccountID: req.AccountID,
		RouteID:   route.ID,
		Price:     route.Price.Round(2),
		Status:    domain.TripStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		switch {
		case errors.Is(err, repository.ErrActiveTripExists):
			return nil, ErrTripInProgress
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccountNotFound
		default:
			return nil, err
		}
	}

	if s.notifications != nil {
		_ = s.notifications.NotifyTripCreated(ctx, trip)
	}

	return trip, nil
}

// TransitionByOperator advances the trip on behalf of the driver side.
// No ownership check. A transition to canceled refunds the snapshot price,
// at most once, even under concurrent retries.
func (s *TripService) TransitionByOperator(ctx context.Context, tripID string, newStatus domain.TripStatus) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if !domain.ValidStatus(newStatus) {
		return nil, ErrInvalidTransition
	}

	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status.IsTerminal() {
		return nil, ErrAlreadyFinal
	}
	if !domain.CanTransition(trip.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	if newStatus == domain.TripStatusCanceled {
		err = s.tripRepo.CancelWithRefund(ctx, trip, trip.Status)
	} else {
		err = s.tripRepo.TransitionStatus(ctx, trip.ID, trip.Status, newStatus)
	}
	if err != nil {
		return nil, s.resolveConflict(ctx, trip.ID, err)
	}

	trip.Status = newStatus

	if s.notifications != nil {
		_ = s.notifications.NotifyTripStatusChanged(ctx, trip)
		if newStatus == domain.TripStatusCanceled {
			_ = s.notifications.NotifyRefundIssued(ctx, trip)
		}
	}

	return trip, nil
}

// CancelByOwner cancels the caller's own pending trip and refunds the
// snapshot price. Once a trip is active only the operator may cancel it.
func (s *TripService) CancelByOwner(ctx context.Context, tripID, accountID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.AccountID != accountID {
		return nil, ErrForbidden
	}
	if trip.Status.IsTerminal() {
		return nil, ErrAlreadyFinal
	}
	if trip.Status == domain.TripStatusActive {
		return nil, ErrCancellationBlocked
	}

	if err := s.tripRepo.CancelWithRefund(ctx, trip, domain.TripStatusPending); err != nil {
		return nil, s.resolveConflict(ctx, trip.ID, err)
	}

	trip.Status = domain.TripStatusCanceled

	if s.notifications != nil {
		_ = s.notifications.NotifyTripStatusChanged(ctx, trip)
		_ = s.notifications.NotifyRefundIssued(ctx, trip)
	}

	return trip, nil
}

// Get retrieves a trip resolved with its route.
func (s *TripService) Get(ctx context.Context, tripID string) (*TripDetails, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	route, err := s.quoteService.GetRoute(ctx, trip.RouteID)
	if err != nil {
		return nil, err
	}

	return &TripDetails{Trip: trip, Route: route}, nil
}

// List retrieves trips newest-first, optionally filtered by status, each
// resolved with its account and route.
func (s *TripService) List(ctx context.Context, status *domain.TripStatus) ([]*TripDetails, error) {
	if status != nil && !domain.ValidStatus(*status) {
		return nil, ErrInvalidTransition
	}

	trips, err := s.tripRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	details := make([]*TripDetails, 0, len(trips))
	for _, trip := range trips {
		route, err := s.quoteService.GetRoute(ctx, trip.RouteID)
		if err != nil {
			return nil, err
		}
		account, err := s.accountRepo.GetByID(ctx, trip.AccountID)
		if err != nil {
			return nil, err
		}
		details = append(details, &TripDetails{Trip: trip, Route: route, Account: account})
	}

	return details, nil
}

func (s *TripService) getTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// resolveConflict maps a lost compare-and-set back into the caller-facing
// taxonomy by re-reading the trip's current status.
func (s *TripService) resolveConflict(ctx context.Context, tripID string, err error) error {
	if !errors.Is(err, repository.ErrStatusConflict) {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTripNotFound
		}
		return err
	}

	trip, readErr := s.tripRepo.GetByID(ctx, tripID)
	if readErr != nil {
		return err
	}

	if trip.Status.IsTerminal() {
		return ErrAlreadyFinal
	}
	return ErrInvalidTransition
}
