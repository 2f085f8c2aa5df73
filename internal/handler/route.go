package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbook/internal/domain"
	"tripbook/internal/service"
)

// RouteHandler handles HTTP requests for quotes and routes.
type RouteHandler struct {
	quoteService *service.QuoteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(quoteService *service.QuoteService) *RouteHandler {
	return &RouteHandler{quoteService: quoteService}
}

// QuoteRequest is the HTTP request body for quoting a prospective trip.
type QuoteRequest struct {
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// QuoteResponse is the HTTP response for a computed quote.
type QuoteResponse struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

// RouteResponse is the HTTP response for a persisted route.
type RouteResponse struct {
	ID              string `json:"id"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Quote handles POST /v1/quotes. Pure computation, nothing is persisted.
func (h *RouteHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.quoteService.Quote(req.Origin, req.Destination, req.DistanceMeters, req.DurationSeconds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Origin:          quote.Origin,
		Destination:     quote.Destination,
		Price:           quote.Price.StringFixed(2),
		DurationMinutes: quote.DurationMinutes,
	})
}

// CreateRoute handles POST /v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	route, err := h.quoteService.CreateRoute(c.Request.Context(), req.Origin, req.Destination, req.DistanceMeters, req.DurationSeconds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, routeResponse(route))
}

// GetRoute handles GET /v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.quoteService.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, routeResponse(route))
}

// GetAll handles GET /v1/routes
func (h *RouteHandler) GetAll(c *gin.Context) {
	routes, err := h.quoteService.GetAllRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, route := range routes {
		response = append(response, routeResponse(route))
	}

	c.JSON(http.StatusOK, response)
}

func routeResponse(route *domain.Route) RouteResponse {
	return RouteResponse{
		ID:              route.ID,
		Origin:          route.Origin,
		Destination:     route.Destination,
		Price:           route.Price.StringFixed(2),
		DurationMinutes: route.DurationMinutes,
	}
}
