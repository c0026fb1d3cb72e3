package identity

import "errors"

// Identity errors.
var (
	ErrArtisanNotFound    = errors.New("artisan not found")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
)
