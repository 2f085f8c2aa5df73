package service

import "errors"

var (
	// ErrInvalidAccountID is returned when account ID is empty.
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrInvalidRouteID is returned when route ID is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrAccountNotFound is returned when the account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrRouteNotFound is returned when the route does not exist.
	ErrRouteNotFound = errors.New("route not found")

	// ErrTripNotFound is returned when the trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrTripInProgress is returned when the account already owns a trip
	// in pending or active state.
	ErrTripInProgress = errors.New("account already has a trip in progress")

	// ErrAlreadyFinal is returned when a transition targets a trip that is
	// already completed or canceled.
	ErrAlreadyFinal = errors.New("trip already in a final state")

	// ErrInvalidTransition is returned when the requested status change is
	// not allowed by the trip state machine.
	ErrInvalidTransition = errors.New("invalid trip status transition")

	// ErrCancellationBlocked is returned when the owner tries to cancel an
	// active trip. Only the operator may cancel once the trip is active.
	ErrCancellationBlocked = errors.New("trip in progress can only be cancelled by the operator")

	// ErrForbidden is returned when the caller does not own the trip.
	ErrForbidden = errors.New("trip belongs to another account")

	// ErrInvalidQuoteInput is returned when quote inputs are malformed.
	ErrInvalidQuoteInput = errors.New("invalid quote input")

	// ErrInvalidAmount is returned when a ledger amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCredentials is returned when login fails. Deliberately the
	// same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingFields is returned when a registration is missing required
	// fields.
	ErrMissingFields = errors.New("email and password are required")

	// ErrTokenMalformed is returned when a credential cannot be verified
	// or has expired.
	ErrTokenMalformed = errors.New("malformed or expired token")

	// ErrTokenRevoked is returned when a credential has been logged out.
	ErrTokenRevoked = errors.New("token has been revoked")
)
