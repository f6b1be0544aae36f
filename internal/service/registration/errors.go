// Package registration implements the orchestrated account-registration
// saga: create a profile, create a credential, and compensate by deleting
// the profile when credential creation fails.
package registration

import "errors"

// Saga errors surfaced to callers. The coordinator never leaks raw
// transport errors; everything maps to one of these.
var (
	// ErrAlreadyExists is returned when the email or handle is already
	// taken by a committed profile or credential.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrTransactionFailed is returned when the saga aborted after a
	// compensation attempt. The underlying cause is wrapped.
	ErrTransactionFailed = errors.New("registration transaction failed")
)
