package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbook/internal/repository"
	"tripbook/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status
// code. Unrecognized errors become an opaque 500 so storage details never
// reach the caller.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrRouteNotFound),
		errors.Is(err, service.ErrTripNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAccountID),
		errors.Is(err, service.ErrInvalidRouteID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidQuoteInput),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingFields):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrTripInProgress),
		errors.Is(err, service.ErrAlreadyFinal),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrCancellationBlocked),
		errors.Is(err, repository.ErrDuplicateEmail):
		return http.StatusConflict

	// Balance cannot cover the debit
	case errors.Is(err, repository.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Ownership mismatch
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Authentication failures
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
