package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/config"
	"github.com/nordvik/sagapay/internal/service/auth"
)

func newJWTService(t *testing.T, lifetimeMinutes int) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: lifetimeMinutes,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	_, err := auth.NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newJWTService(t, 60)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 42, "ada@example.com", []string{"user"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Handle)
	assert.Equal(t, []string{"user"}, claims.Roles)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newJWTService(t, 60)

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := newJWTService(t, 60)
	verifier, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "ffffffffffffffffffffffffffffffff",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(context.Background(), 42, "ada@example.com", nil)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery"))
	assert.Error(t, hasher.Compare(hash, "wrong secret"))
}
