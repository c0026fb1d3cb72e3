package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/pkg/ctxlog"
)

// ErrorMapping defines how a domain error maps to an HTTP response.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string // if empty, uses err.Error()
}

// authMappings apply to every handler so access-control failures translate
// uniformly: 401 unauthenticated, 403 forbidden, and 404 for ownership
// mismatches (deliberately indistinguishable from true absence).
var authMappings = []ErrorMapping{
	{Error: auth.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: "unauthorized"},
	{Error: auth.ErrForbidden, Status: http.StatusForbidden, Message: "insufficient permissions"},
	{Error: auth.ErrNotOwner, Status: http.StatusNotFound},
}

// HandleError maps a domain error to an HTTP response using provided mappings.
// Access-control errors are always handled. If no mapping matches, the error
// is logged and a 500 Internal Server Error is returned, so infrastructure
// failures are never masked as client errors.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping) {
	for _, m := range mappings {
		if errors.Is(err, m.Error) {
			respondMapped(w, m, err)
			return
		}
	}
	for _, m := range authMappings {
		if errors.Is(err, m.Error) {
			respondMapped(w, m, err)
			return
		}
	}
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, "internal server error")
}

func respondMapped(w http.ResponseWriter, m ErrorMapping, err error) {
	msg := m.Message
	if msg == "" {
		msg = err.Error()
	}
	Error(w, m.Status, msg)
}
