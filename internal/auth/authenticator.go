package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/hastkala/marketplace/internal/domain"
)

// Identity is the resolved, request-scoped caller identity. A zero Identity
// means the request is anonymous.
type Identity struct {
	ArtisanID string
	Email     string
	Role      domain.Role
}

// IsZero reports whether the identity is unset (anonymous caller).
func (id Identity) IsZero() bool {
	return id.ArtisanID == ""
}

// AccountStore resolves accounts during authentication.
// FindAccountByID returns (nil, nil) when no account exists; a non-nil error
// means the store itself failed and must not be treated as an auth failure.
type AccountStore interface {
	FindAccountByID(ctx context.Context, id string) (*domain.Artisan, error)
}

// Authenticator turns an Authorization header into an Identity.
// Every successful call re-reads the account so role or email changes take
// effect immediately; there is no caching by design.
type Authenticator struct {
	tokens   *TokenService
	accounts AccountStore
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(tokens *TokenService, accounts AccountStore) *Authenticator {
	return &Authenticator{tokens: tokens, accounts: accounts}
}

// Authenticate extracts a bearer token from the header value, verifies it, and
// resolves the live account. The returned identity carries the freshly read
// email and role, not the token's. Auth failures wrap ErrUnauthenticated;
// store failures propagate unwrapped so callers can tell "bad credentials"
// from "dependency down".
func (a *Authenticator) Authenticate(ctx context.Context, headerValue string) (Identity, error) {
	token, err := extractBearerToken(headerValue)
	if err != nil {
		return Identity{}, err
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	account, err := a.accounts.FindAccountByID(ctx, claims.ArtisanID)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve account: %w", err)
	}
	if account == nil {
		return Identity{}, fmt.Errorf("%w: account no longer exists", ErrUnauthenticated)
	}

	return Identity{
		ArtisanID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	}, nil
}

// AuthenticateOptional behaves like Authenticate but yields an anonymous
// identity instead of an error, for endpoints with mixed public/private
// behavior. It never fails.
func (a *Authenticator) AuthenticateOptional(ctx context.Context, headerValue string) Identity {
	id, err := a.Authenticate(ctx, headerValue)
	if err != nil {
		return Identity{}
	}
	return id
}

func extractBearerToken(headerValue string) (string, error) {
	if headerValue == "" {
		return "", fmt.Errorf("%w: missing authorization header", ErrUnauthenticated)
	}

	parts := strings.SplitN(headerValue, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", fmt.Errorf("%w: invalid authorization header format", ErrUnauthenticated)
	}

	return parts[1], nil
}
