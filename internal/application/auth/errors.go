package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid email")
	ErrIncorrectPassword     = errors.New("Incorrect password")
	ErrAccountBanned         = errors.New("Forbidden Access. User account has been banned")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)
