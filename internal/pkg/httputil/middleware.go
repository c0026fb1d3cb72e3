package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/pkg/ctxlog"
)

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if originsSet[origin] || originsSet["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type contextKey string

const identityKey contextKey = "identity"

// RequestAuthenticator resolves an Authorization header into an identity.
type RequestAuthenticator interface {
	Authenticate(ctx context.Context, headerValue string) (auth.Identity, error)
	AuthenticateOptional(ctx context.Context, headerValue string) auth.Identity
}

// AuthMiddleware rejects requests without a valid bearer token. A store
// failure during account resolution yields 500, not 401.
func AuthMiddleware(authn RequestAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authn.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					Error(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				ctxlog.FromContext(r.Context()).Error("authentication failed", "error", err)
				Error(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			ctx = ctxlog.With(ctx, "artisan_id", identity.ArtisanID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves an identity when a valid token is present
// and serves the request anonymously otherwise. It never rejects.
func OptionalAuthMiddleware(authn RequestAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := authn.AuthenticateOptional(r.Context(), r.Header.Get("Authorization"))
			if !identity.IsZero() {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates role-based access middleware. It must run after
// AuthMiddleware.
func RequireRole(allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Authorize(IdentityFromContext(r.Context()), allowed...); err != nil {
				HandleError(r.Context(), w, err, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity attaches a resolved identity to the context.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext extracts the caller identity from context.
// Returns a zero identity for anonymous requests.
func IdentityFromContext(ctx context.Context) auth.Identity {
	if id, ok := ctx.Value(identityKey).(auth.Identity); ok {
		return id
	}
	return auth.Identity{}
}
