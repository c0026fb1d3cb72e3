package auth

import (
	"testing"
	"time"

	"github.com/hastkala/marketplace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, secret string, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{Secret: secret, TTL: ttl})
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	assert.Error(t, err)
}

func TestTokenService_IssueVerify_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t, "test-secret", time.Hour)

	token, err := svc.Issue("artisan-1", "meera@example.com", domain.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "artisan-1", claims.ArtisanID)
	assert.Equal(t, "meera@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := newTestTokenService(t, "test-secret", time.Hour)

	token, err := svc.Issue("artisan-1", "meera@example.com", domain.RoleUser)
	require.NoError(t, err)

	// Advance the clock past expiry.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, "secret-a", time.Hour)
	verifier := newTestTokenService(t, "secret-b", time.Hour)

	token, err := issuer.Issue("artisan-1", "meera@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := newTestTokenService(t, "test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := newTestTokenService(t, "test-secret", 0)
	assert.Equal(t, DefaultTokenTTL, svc.ttl)
}
