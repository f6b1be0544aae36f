package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/store"
)

// ProfileStore implements the store.ProfileStore interface using a
// PostgreSQL database as the storage backend.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new PostgreSQL implementation of the
// store.ProfileStore interface. It accepts a database connection that should
// be initialized and managed by the caller.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Ensure ProfileStore implements store.ProfileStore
var _ store.ProfileStore = (*ProfileStore)(nil)

// Create implements store.ProfileStore.Create
func (s *ProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO profiles (id, name, surname, birthdate, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.Surname, profile.Birthdate, profile.Email, profile.CreatedAt)
	if err != nil {
		return MapUniqueViolation(err, store.ErrEmailExists)
	}

	return nil
}

// GetByID implements store.ProfileStore.GetByID
func (s *ProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	const query = `
		SELECT id, name, surname, birthdate, email, created_at
		FROM profiles
		WHERE id = $1`

	return s.scanProfile(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.ProfileStore.GetByEmail
func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	const query = `
		SELECT id, name, surname, birthdate, email, created_at
		FROM profiles
		WHERE email = $1`

	return s.scanProfile(s.db.QueryRowContext(ctx, query, email))
}

// Delete implements store.ProfileStore.Delete
func (s *ProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrProfileNotFound
	}

	return nil
}

func (s *ProfileStore) scanProfile(row *sql.Row) (*domain.Profile, error) {
	var profile domain.Profile
	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Surname,
		&profile.Birthdate,
		&profile.Email,
		&profile.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrProfileNotFound
		}
		return nil, MapError(err)
	}

	return &profile, nil
}
