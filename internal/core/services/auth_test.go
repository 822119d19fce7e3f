package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authadapter "github.com/clinicode-labs/clinicode-core/internal/adapters/driven/auth"
	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

func newAuthFixture(t *testing.T) (*authadapter.Adapter, string) {
	t.Helper()
	adapter := authadapter.NewAdapterWithCost("test-secret", bcrypt.MinCost)
	hash, err := adapter.HashAPIKey("valid-key")
	require.NoError(t, err)
	return adapter, hash
}

func TestIssueToken(t *testing.T) {
	adapter, hash := newAuthFixture(t)
	svc := NewAuthService(adapter, hash, time.Hour)

	token, err := svc.IssueToken(context.Background(), "client-1", "valid-key")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "client-1", claims.ClientID)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestIssueToken_WrongKey(t *testing.T) {
	adapter, hash := newAuthFixture(t)
	svc := NewAuthService(adapter, hash, time.Hour)

	_, err := svc.IssueToken(context.Background(), "client-1", "wrong-key")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIssueToken_NoKeyConfigured(t *testing.T) {
	adapter, _ := newAuthFixture(t)
	svc := NewAuthService(adapter, "", time.Hour)

	_, err := svc.IssueToken(context.Background(), "client-1", "valid-key")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIssueToken_MissingClientID(t *testing.T) {
	adapter, hash := newAuthFixture(t)
	svc := NewAuthService(adapter, hash, time.Hour)

	_, err := svc.IssueToken(context.Background(), "", "valid-key")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateToken_Expired(t *testing.T) {
	adapter, hash := newAuthFixture(t)
	svc := NewAuthService(adapter, hash, time.Hour)

	past := time.Now().Add(-2 * time.Hour)
	token, err := adapter.GenerateToken(&domain.TokenClaims{
		ClientID:  "client-1",
		IssuedAt:  past.Unix(),
		ExpiresAt: past.Add(time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestValidateToken_Invalid(t *testing.T) {
	adapter, hash := newAuthFixture(t)
	svc := NewAuthService(adapter, hash, time.Hour)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// Token signed with a different secret.
	other := authadapter.NewAdapterWithCost("other-secret", bcrypt.MinCost)
	now := time.Now()
	forged, err := other.GenerateToken(&domain.TokenClaims{
		ClientID:  "client-1",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), forged)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
