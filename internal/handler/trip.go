package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbook/internal/domain"
	"tripbook/internal/middleware"
	"tripbook/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for committing a trip.
type CreateTripRequest struct {
	RouteID string `json:"route_id"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID        string           `json:"id"`
	AccountID string           `json:"account_id"`
	RouteID   string           `json:"route_id"`
	Price     string           `json:"price"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"created_at"`
	Route     *RouteResponse   `json:"route,omitempty"`
	Account   *AccountResponse `json:"account,omitempty"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Create handles POST /v1/trips. The authenticated caller becomes the
// trip owner.
func (h *TripHandler) Create(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), service.CreateTripRequest{
		AccountID: accountID,
		RouteID:   req.RouteID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tripResponse(trip))
}

// UpdateStatusRequest is the HTTP request body for operator transitions.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /v1/trips/:id/status (driver-side, no
// ownership check).
func (h *TripHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.TransitionByOperator(c.Request.Context(), c.Param("id"), domain.TripStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tripResponse(trip))
}

// Cancel handles POST /v1/trips/:id/cancel for the trip owner.
func (h *TripHandler) Cancel(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	trip, err := h.tripService.CancelByOwner(c.Request.Context(), c.Param("id"), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	details, err := h.tripService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := tripResponse(details.Trip)
	if details.Route != nil {
		r := routeResponse(details.Route)
		response.Route = &r
	}

	c.JSON(http.StatusOK, response)
}

// GetAll handles GET /v1/trips with an optional ?status= filter.
func (h *TripHandler) GetAll(c *gin.Context) {
	var status *domain.TripStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.TripStatus(raw)
		if !domain.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown trip status"})
			return
		}
		status = &s
	}

	details, err := h.tripService.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(details))
	for _, d := range details {
		tr := tripResponse(d.Trip)
		if d.Route != nil {
			r := routeResponse(d.Route)
			tr.Route = &r
		}
		if d.Account != nil {
			tr.Account = &AccountResponse{
				ID:       d.Account.ID,
				Email:    d.Account.Email,
				Username: d.Account.Username,
				Balance:  d.Account.Balance.StringFixed(2),
			}
		}
		response = append(response, tr)
	}

	c.JSON(http.StatusOK, response)
}

func tripResponse(trip *domain.Trip) TripResponse {
	return TripResponse{
		ID:        trip.ID,
		AccountID: trip.AccountID,
		RouteID:   trip.RouteID,
		Price:     trip.Price.StringFixed(2),
		Status:    string(trip.Status),
		CreatedAt: trip.CreatedAt.Format(timeLayout),
	}
}
