// Package auth implements the access control core: signed session tokens,
// request authentication, role authorization, and the ownership guard shared
// by every owned-resource module.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hastkala/marketplace/internal/domain"
)

// DefaultTokenTTL is used when no expiry override is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the verified payload of a session token.
type Claims struct {
	ArtisanID string
	Email     string
	Role      domain.Role
}

type tokenClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited session tokens.
// Tokens are stateless; nothing is persisted server-side.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenConfig holds token service configuration.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// NewTokenService creates a token service. The signing secret is required.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue produces a signed token encoding the identity and an expiry computed
// from the configured TTL.
func (s *TokenService) Issue(artisanID, email string, role domain.Role) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   artisanID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// All failures are reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var claims tokenClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Claims{
		ArtisanID: claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}
