// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidStatus is returned when a status value is not part of the
	// known enumeration.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition is returned when an order status change would move
	// the order backwards in its lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
)
