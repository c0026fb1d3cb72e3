package listings

import "errors"

// Listing errors.
var (
	ErrListingNotFound = errors.New("listing not found")
)
