package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/store"
)

// CredentialStore implements the store.CredentialStore interface using a
// PostgreSQL database as the storage backend.
type CredentialStore struct {
	db *sql.DB
}

// NewCredentialStore creates a new PostgreSQL implementation of the
// store.CredentialStore interface.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Ensure CredentialStore implements store.CredentialStore
var _ store.CredentialStore = (*CredentialStore)(nil)

// Create implements store.CredentialStore.Create
func (s *CredentialStore) Create(ctx context.Context, credential *domain.Credential) error {
	if credential.SecretHash == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptySecretHash)
	}

	const query = `
		INSERT INTO credentials (handle, secret_hash, roles, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	// Roles are stored as a comma-joined text column; the role set is tiny
	// and never queried individually.
	err := s.db.QueryRowContext(ctx, query,
		credential.Handle, credential.SecretHash, strings.Join(credential.Roles, ","), credential.CreatedAt,
	).Scan(&credential.ID)
	if err != nil {
		return MapUniqueViolation(err, store.ErrHandleExists)
	}

	return nil
}

// GetByHandle implements store.CredentialStore.GetByHandle
func (s *CredentialStore) GetByHandle(ctx context.Context, handle string) (*domain.Credential, error) {
	const query = `
		SELECT id, handle, secret_hash, roles, created_at
		FROM credentials
		WHERE handle = $1`

	var credential domain.Credential
	var roles string

	err := s.db.QueryRowContext(ctx, query, handle).Scan(
		&credential.ID,
		&credential.Handle,
		&credential.SecretHash,
		&roles,
		&credential.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCredentialNotFound
		}
		return nil, MapError(err)
	}

	if roles != "" {
		credential.Roles = strings.Split(roles, ",")
	}

	return &credential, nil
}
