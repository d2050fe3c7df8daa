package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	srv := NewTokenService("test-secret", time.Hour)

	token, err := srv.Issue("user-123", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := srv.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, "alice", claims.Username)
}

func TestTokenService_MissingSecret(t *testing.T) {
	srv := NewTokenService("  ", time.Hour)

	_, err := srv.Issue("user-123", "alice")
	require.ErrorContains(t, err, "creating access token")
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Issue("user-123", "alice")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	srv := NewTokenService("test-secret", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	srv.now = func() time.Time { return issuedAt }

	token, err := srv.Issue("user-123", "alice")
	require.NoError(t, err)

	srv.now = time.Now
	_, err = srv.Parse(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_Garbage(t *testing.T) {
	_, err := NewTokenService("test-secret", time.Hour).Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
