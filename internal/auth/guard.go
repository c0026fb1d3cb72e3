package auth

import (
	"fmt"

	"github.com/hastkala/marketplace/internal/domain"
)

// Authorize accepts the identity iff its role is in the allowed set.
// An anonymous identity yields ErrUnauthenticated, a disallowed role
// ErrForbidden. Pure predicate, no I/O.
func Authorize(id Identity, allowed ...domain.Role) error {
	if id.IsZero() {
		return fmt.Errorf("%w: authentication required", ErrUnauthenticated)
	}
	for _, role := range allowed {
		if id.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: insufficient permissions", ErrForbidden)
}

// CheckOwnership accepts iff the caller owns the resource identified by
// ownerID, or the caller is an admin. The single guard is shared by every
// owned-resource module (stories, listings, orders, community and social
// posts); handlers map ErrNotOwner to 404 so the existence of other users'
// resources is never revealed.
func CheckOwnership(id Identity, ownerID string) error {
	if id.IsZero() {
		return fmt.Errorf("%w: authentication required", ErrUnauthenticated)
	}
	if id.Role == domain.RoleAdmin {
		return nil
	}
	if id.ArtisanID != ownerID {
		return ErrNotOwner
	}
	return nil
}
