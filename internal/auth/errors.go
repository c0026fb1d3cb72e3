package auth

import "errors"

// Access control errors.
var (
	// ErrInvalidToken is returned by token verification for any structural or
	// cryptographic failure: bad signature, malformed payload, or expiry.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated covers missing/malformed credentials, invalid tokens,
	// and accounts that no longer exist. Maps to 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but its role is not in
	// the allowed set. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotOwner means the caller does not own the resource. Handlers map it
	// to 404, not 403, so cross-owner probes cannot distinguish "belongs to
	// someone else" from "does not exist".
	ErrNotOwner = errors.New("resource not found")
)
