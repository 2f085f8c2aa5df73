package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEmail is returned when an account with the same email
	// already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInsufficientFunds is returned when a debit would drive a balance
	// negative. The balance is left unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrActiveTripExists is returned when the account already owns a trip
	// in pending or active state.
	ErrActiveTripExists = errors.New("account already has an active trip")

	// ErrStatusConflict is returned when a conditional status update finds
	// the trip no longer in the expected status.
	ErrStatusConflict = errors.New("trip status changed concurrently")
)
