package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrMissingClaims           = errors.New("authentication claims are missing")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
