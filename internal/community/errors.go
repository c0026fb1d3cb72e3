package community

import "errors"

// Community errors.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidType  = errors.New("invalid post type")
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked")
)
