// Package auth provides token issuance/verification and secret hashing for
// the identity service.
package auth

import "errors"

// Authentication errors.
var (
	// ErrInvalidToken is returned when a token fails signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidCredentials is returned when a handle/secret pair does not
	// match a stored credential. Deliberately indistinguishable between
	// unknown handle and wrong secret.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
