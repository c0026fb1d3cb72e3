package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hastkala/marketplace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAccountStore implements AccountStore for testing.
type mockAccountStore struct {
	accounts map[string]*domain.Artisan
	err      error
}

func (m *mockAccountStore) FindAccountByID(_ context.Context, id string) (*domain.Artisan, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.accounts[id], nil
}

func newTestAuthenticator(t *testing.T, store AccountStore) (*Authenticator, *TokenService) {
	t.Helper()
	tokens := newTestTokenService(t, "test-secret", time.Hour)
	return NewAuthenticator(tokens, store), tokens
}

func TestAuthenticate_Success(t *testing.T) {
	store := &mockAccountStore{accounts: map[string]*domain.Artisan{
		"artisan-1": {ID: "artisan-1", Email: "meera@example.com", Role: domain.RoleUser},
	}}
	authn, tokens := newTestAuthenticator(t, store)

	token, err := tokens.Issue("artisan-1", "meera@example.com", domain.RoleUser)
	require.NoError(t, err)

	id, err := authn.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "artisan-1", id.ArtisanID)
	assert.Equal(t, "meera@example.com", id.Email)
	assert.Equal(t, domain.RoleUser, id.Role)
}

func TestAuthenticate_UsesFreshRoleNotTokenRole(t *testing.T) {
	// Role changed since the token was issued; the fresh read wins.
	store := &mockAccountStore{accounts: map[string]*domain.Artisan{
		"artisan-1": {ID: "artisan-1", Email: "new@example.com", Role: domain.RoleAdmin},
	}}
	authn, tokens := newTestAuthenticator(t, store)

	token, err := tokens.Issue("artisan-1", "old@example.com", domain.RoleUser)
	require.NoError(t, err)

	id, err := authn.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, id.Role)
	assert.Equal(t, "new@example.com", id.Email)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	authn, _ := newTestAuthenticator(t, &mockAccountStore{})

	_, err := authn.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	authn, tokens := newTestAuthenticator(t, &mockAccountStore{})

	token, err := tokens.Issue("artisan-1", "meera@example.com", domain.RoleUser)
	require.NoError(t, err)

	for _, header := range []string{"Basic abc", token, "Bearer ", "Bearer"} {
		_, err := authn.Authenticate(context.Background(), header)
		assert.ErrorIs(t, err, ErrUnauthenticated, "header %q", header)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	authn, _ := newTestAuthenticator(t, &mockAccountStore{})

	_, err := authn.Authenticate(context.Background(), "Bearer garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_AccountRemoved(t *testing.T) {
	// Token is valid but the account was deleted after issuance.
	store := &mockAccountStore{accounts: map[string]*domain.Artisan{}}
	authn, tokens := newTestAuthenticator(t, store)

	token, err := tokens.Issue("artisan-1", "meera@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_StoreFailureIsNotAuthFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	authn, tokens := newTestAuthenticator(t, &mockAccountStore{err: storeErr})

	token, err := tokens.Issue("artisan-1", "meera@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, storeErr)
}

func TestAuthenticateOptional_NeverFails(t *testing.T) {
	store := &mockAccountStore{accounts: map[string]*domain.Artisan{
		"artisan-1": {ID: "artisan-1", Email: "meera@example.com", Role: domain.RoleUser},
	}}
	authn, tokens := newTestAuthenticator(t, store)

	valid, err := tokens.Issue("artisan-1", "meera@example.com", domain.RoleUser)
	require.NoError(t, err)
	unknown, err := tokens.Issue("ghost", "ghost@example.com", domain.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		wantID    string
		anonymous bool
	}{
		{name: "valid token", header: "Bearer " + valid, wantID: "artisan-1"},
		{name: "no header", header: "", anonymous: true},
		{name: "malformed header", header: "nonsense", anonymous: true},
		{name: "garbage token", header: "Bearer garbage", anonymous: true},
		{name: "account removed", header: "Bearer " + unknown, anonymous: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := authn.AuthenticateOptional(context.Background(), tt.header)
			if tt.anonymous {
				assert.True(t, id.IsZero())
			} else {
				assert.Equal(t, tt.wantID, id.ArtisanID)
			}
		})
	}
}
