package domain

import (
	"errors"
	"time"
)

// Credential validation errors.
var (
	ErrEmptyHandle     = errors.New("credential handle cannot be empty")
	ErrEmptySecret     = errors.New("secret cannot be empty")
	ErrSecretTooShort  = errors.New("secret must be at least 8 characters long")
	ErrSecretTooLong   = errors.New("secret must be at most 72 characters long")
	ErrEmptySecretHash = errors.New("secret hash cannot be empty")
)

// DefaultRole is assigned to every credential created through registration.
const DefaultRole = "user"

// Credential represents an authentication record owned by the identity
// service, keyed by a unique handle (the user's email).
type Credential struct {
	ID         int64     `json:"id"` // Assigned by the store on insert
	Handle     string    `json:"handle"`
	Secret     string    `json:"-"` // Plaintext, only populated during creation
	SecretHash string    `json:"-"` // Never exposed in JSON
	Roles      []string  `json:"roles"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCredential creates a Credential for the given handle and plaintext
// secret. The caller is responsible for hashing the secret before storage.
func NewCredential(handle, secret string) (*Credential, error) {
	c := &Credential{
		Handle:    handle,
		Secret:    secret,
		Roles:     []string{DefaultRole},
		CreatedAt: time.Now().UTC(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks if the Credential has valid data.
func (c *Credential) Validate() error {
	if c.Handle == "" {
		return ErrEmptyHandle
	}

	if c.Secret != "" {
		// bcrypt truncates input beyond 72 bytes, so reject it outright.
		if len(c.Secret) < 8 {
			return ErrSecretTooShort
		}
		if len(c.Secret) > 72 {
			return ErrSecretTooLong
		}
		return nil
	}

	// Credentials loaded from storage carry only the hash.
	if c.SecretHash == "" {
		return ErrEmptySecret
	}

	return nil
}
