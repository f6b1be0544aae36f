package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors (e.g., ErrOrderNotFound, ErrProfileNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity (e.g., a profile with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateConflict is returned when a conditional update affected zero
	// rows, typically because the entity vanished or a transition guard
	// rejected the change.
	ErrUpdateConflict = errors.New("update conflict")

	// Entity-specific "not found" errors

	// ErrProfileNotFound indicates that the requested profile does not exist.
	ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)

	// ErrCredentialNotFound indicates that the requested credential does not exist.
	ErrCredentialNotFound = fmt.Errorf("%w: credential", ErrNotFound)

	// ErrOrderNotFound indicates that the requested order does not exist.
	ErrOrderNotFound = fmt.Errorf("%w: order", ErrNotFound)

	// ErrPaymentNotFound indicates that the requested payment does not exist.
	ErrPaymentNotFound = fmt.Errorf("%w: payment", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a profile with the given email already
	// exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrHandleExists indicates that a credential with the given handle
	// already exists.
	ErrHandleExists = fmt.Errorf("%w: handle", ErrDuplicate)

	// ErrPaymentExists indicates that a payment for the given order already
	// exists. The payments table is unique on order_id so a redelivered
	// order-created fact cannot insert a second row.
	ErrPaymentExists = fmt.Errorf("%w: payment for order", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
