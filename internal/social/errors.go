package social

import "errors"

// Social errors.
var (
	ErrAccountNotFound = errors.New("social account not found")
)
