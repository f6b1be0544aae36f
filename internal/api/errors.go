package api

import (
	"errors"
	"net/http"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/service/auth"
	"github.com/nordvik/sagapay/internal/service/registration"
	"github.com/nordvik/sagapay/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err),
		errors.Is(err, store.ErrUpdateConflict),
		errors.Is(err, registration.ErrAlreadyExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEmptyOrderItems),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest

	// Default: internal server error. ErrTransactionFailed lands here too:
	// the registration saga failed mid-flight and was compensated.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, store.ErrOrderNotFound):
		return "Order not found"

	case errors.Is(err, store.ErrPaymentNotFound):
		return "Payment not found"

	case errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrHandleExists),
		errors.Is(err, registration.ErrAlreadyExists):
		return "Already registered"

	case errors.Is(err, store.ErrUpdateConflict):
		return "Conflicting status update"

	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, registration.ErrTransactionFailed):
		return "Registration could not be completed"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEmptyOrderItems),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidAmount):
		return "Invalid request"

	default:
		return "An unexpected error occurred"
	}
}
