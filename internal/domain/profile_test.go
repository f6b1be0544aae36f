package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/domain"
)

var birthdate = time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestNewProfile(t *testing.T) {
	t.Parallel()

	t.Run("valid profile", func(t *testing.T) {
		p, err := domain.NewProfile("Ada", "Lovelace", birthdate, "ada@example.com")
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "Ada", p.Name)
		assert.Equal(t, "ada@example.com", p.Email)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := domain.NewProfile("  ", "Lovelace", birthdate, "ada@example.com")
		assert.ErrorIs(t, err, domain.ErrEmptyProfileName)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := domain.NewProfile("Ada", "Lovelace", birthdate, "")
		assert.ErrorIs(t, err, domain.ErrEmptyEmail)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		for _, email := range []string{"ada", "@example.com", "ada@", "ada@example", "ada@.com"} {
			_, err := domain.NewProfile("Ada", "Lovelace", birthdate, email)
			assert.ErrorIs(t, err, domain.ErrInvalidEmail, "email %q should be rejected", email)
		}
	})
}

func TestNewCredential(t *testing.T) {
	t.Parallel()

	t.Run("valid credential", func(t *testing.T) {
		c, err := domain.NewCredential("ada@example.com", "correct horse battery")
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", c.Handle)
		assert.Equal(t, []string{domain.DefaultRole}, c.Roles)
	})

	t.Run("rejects empty handle", func(t *testing.T) {
		_, err := domain.NewCredential("", "correct horse battery")
		assert.ErrorIs(t, err, domain.ErrEmptyHandle)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		_, err := domain.NewCredential("ada@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrSecretTooShort)
	})

	t.Run("rejects overlong secret", func(t *testing.T) {
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}
		_, err := domain.NewCredential("ada@example.com", string(long))
		assert.ErrorIs(t, err, domain.ErrSecretTooLong)
	})

	t.Run("stored credential needs only hash", func(t *testing.T) {
		c := &domain.Credential{Handle: "ada@example.com", SecretHash: "$2a$10$abc"}
		assert.NoError(t, c.Validate())
	})
}
