package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile validation errors.
var (
	ErrEmptyProfileID   = errors.New("profile ID cannot be empty")
	ErrEmptyProfileName = errors.New("profile name cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
)

// Profile represents a user profile owned by the profile service.
// It carries the personal details captured at registration; credentials
// are stored separately and linked only by email.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Birthdate time.Time `json:"birthdate"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProfile creates a new Profile with a generated ID and creation timestamp.
// Returns an error if validation fails.
func NewProfile(name, surname string, birthdate time.Time, email string) (*Profile, error) {
	p := &Profile{
		ID:        uuid.New(),
		Name:      name,
		Surname:   surname,
		Birthdate: birthdate,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Profile has valid data.
// Returns an error if any field fails validation.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProfileID
	}

	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProfileName
	}

	if p.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(p.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// validEmailFormat performs basic structural validation of an email address:
// exactly one @ with a non-empty local part and a dotted domain.
// Request-level validation uses the validator library; this is the last line
// of defense for profiles constructed in code.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
