package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/store"
)

// ProfileStore is an in-memory store.ProfileStore, unique on email.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile

	// CreateErr, if set, is returned by Create.
	CreateErr error
	// DeleteErr, if set, is returned by Delete.
	DeleteErr error
	// DeleteCalls counts Delete invocations.
	DeleteCalls int
}

// NewProfileStore creates an empty ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (m *ProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.Email == profile.Email {
			return store.ErrEmailExists
		}
	}
	copied := *profile
	m.profiles[profile.ID] = &copied
	return nil
}

func (m *ProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (m *ProfileStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, profile := range m.profiles {
		if profile.Email == email {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, store.ErrProfileNotFound
}

func (m *ProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.profiles[id]; !ok {
		return store.ErrProfileNotFound
	}
	delete(m.profiles, id)
	return nil
}

// Count returns the number of stored profiles.
func (m *ProfileStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

// CredentialStore is an in-memory store.CredentialStore, unique on handle.
type CredentialStore struct {
	mu          sync.Mutex
	nextID      int64
	credentials map[string]*domain.Credential

	// CreateErr, if set, is returned by Create.
	CreateErr error
	// GetErr, if set, is returned by GetByHandle.
	GetErr error
}

// NewCredentialStore creates an empty CredentialStore.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{credentials: make(map[string]*domain.Credential)}
}

func (m *CredentialStore) Create(ctx context.Context, credential *domain.Credential) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.credentials[credential.Handle]; exists {
		return store.ErrHandleExists
	}
	m.nextID++
	credential.ID = m.nextID
	copied := *credential
	m.credentials[credential.Handle] = &copied
	return nil
}

func (m *CredentialStore) GetByHandle(ctx context.Context, handle string) (*domain.Credential, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	credential, ok := m.credentials[handle]
	if !ok {
		return nil, store.ErrCredentialNotFound
	}
	copied := *credential
	return &copied, nil
}
