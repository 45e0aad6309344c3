// Package common defines shared constants and sentinel errors used across
// the NileGuide auth backend. Callers should use errors.Is to match these
// values; the REST layer maps each of them to exactly one response status.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Reset-flow errors. ErrorInvalidCode deliberately covers both
	// "unknown account" and "wrong code" so the two are indistinguishable.
	ErrorInvalidCode   = errors.New("invalid code")
	ErrorPasswordReuse = errors.New("password reuse")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Startup-time error. Never returned on a request path.
	ErrorConfiguration = errors.New("configuration error")
)
