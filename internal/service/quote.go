package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripbook/internal/domain"
	internalRedis "tripbook/internal/redis"
	"tripbook/internal/repository"
)

// pricePerKm is the flat tariff applied to the quoted distance.
var pricePerKm = decimal.RequireFromString("2.00")

// QuoteService converts raw distance and duration into a priced quote and
// optionally persists it as an immutable route.
type QuoteService struct {
	routeRepo repository.RouteRepository
	cache     internalRedis.RouteCacheInterface
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(routeRepo repository.RouteRepository, cache internalRedis.RouteCacheInterface) *QuoteService {
	return &QuoteService{routeRepo: routeRepo, cache: cache}
}

// Quote is pure and deterministic: price = distanceKm * 2.00 rounded to 2
// decimal places, duration rounded up to whole minutes.
func (s *QuoteService) Quote(origin, destination string, distanceMeters, durationSeconds float64) (*domain.Quote, error) {
	if origin == "" || destination == "" {
		return nil, ErrInvalidQuoteInput
	}
	if !validMeasure(distanceMeters) || !validMeasure(durationSeconds) {
		return nil, ErrInvalidQuoteInput
	}

	price := decimal.NewFromFloat(distanceMeters).
		Div(decimal.NewFromInt(1000)).
		Mul(pricePerKm).
		Round(2)

	return &domain.Quote{
		Origin:          origin,
		Destination:     destination,
		Price:           price,
		DurationMinutes: int(math.Ceil(durationSeconds / 60)),
	}, nil
}

func validMeasure(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CreateRoute quotes and persists the result as an immutable route.
func (s *QuoteService) CreateRoute(ctx context.Context, origin, destination string, distanceMeters, durationSeconds float64) (*domain.Route, error) {
	quote, err := s.Quote(origin, destination, distanceMeters, durationSeconds)
	if err != nil {
		return nil, err
	}

	route := &domain.Route{
		ID:              uuid.New().String(),
		Origin:          quote.Origin,
		Destination:     quote.Destination,
		Price:           quote.Price,
		DurationMinutes: quote.DurationMinutes,
		CreatedAt:       time.Now(),
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	// Best effort: a cache failure never fails the write.
	_ = s.cacheRoute(ctx, route)

	return route, nil
}

// GetRoute retrieves a route, serving reads from the cache when possible.
func (s *QuoteService) GetRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	if routeID == "" {
		return nil, ErrInvalidRouteID
	}

	if cached, err := s.cache.GetRoute(ctx, routeID); err == nil && cached != nil {
		if route, ok := routeFromCache(cached); ok {
			return route, nil
		}
	}

	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	_ = s.cacheRoute(ctx, route)

	return route, nil
}

// GetAllRoutes retrieves all persisted routes.
func (s *QuoteService) GetAllRoutes(ctx context.Context) ([]*domain.Route, error) {
	return s.routeRepo.GetAll(ctx)
}

func (s *QuoteService) cacheRoute(ctx context.Context, route *domain.Route) error {
	return s.cache.SetRoute(ctx, &internalRedis.CachedRoute{
		ID:              route.ID,
		Origin:          route.Origin,
		Destination:     route.Destination,
		Price:           route.Price.StringFixed(2),
		DurationMinutes: route.DurationMinutes,
	})
}

func routeFromCache(cached *internalRedis.CachedRoute) (*domain.Route, bool) {
	price, err := decimal.NewFromString(cached.Price)
	if err != nil {
		return nil, false
	}
	return &domain.Route{
		ID:              cached.ID,
		Origin:          cached.Origin,
		Destination:     cached.Destination,
		Price:           price,
		DurationMinutes: cached.DurationMinutes,
	}, true
}
