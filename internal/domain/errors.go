// internal/domain/errors.go
package domain

import "errors"

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrSessionNotFound       = errors.New("session not found")
	ErrPasswordResetRequired = errors.New("password reset required")
	ErrInvalidSeason         = errors.New("invalid season")
)
