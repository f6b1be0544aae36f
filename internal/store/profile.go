// Package store defines the persistence interfaces for the aggregates owned
// by each service, together with the sentinel errors implementations return.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/nordvik/sagapay/internal/domain"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	// Create saves a new profile to the store.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Profile if data is invalid.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByID retrieves a profile by its unique ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// GetByEmail retrieves a profile by its email address.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)

	// Delete removes a profile from the store by its ID. This is the
	// compensation path of the registration saga.
	// Returns ErrProfileNotFound if the profile does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CredentialStore defines the interface for credential persistence.
type CredentialStore interface {
	// Create saves a new credential to the store, assigning its numeric ID.
	// The credential must carry a secret hash; plaintext secrets are never
	// persisted.
	// Returns ErrHandleExists if the handle is already taken.
	Create(ctx context.Context, credential *domain.Credential) error

	// GetByHandle retrieves a credential by its unique handle.
	// Returns ErrCredentialNotFound if the credential does not exist.
	GetByHandle(ctx context.Context, handle string) (*domain.Credential, error)
}
