// Package common defines shared constants and sentinel errors used across
// client and server layers of taskkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Account lifecycle errors.
	ErrUnverified        = errors.New("user is not verified")
	ErrAlreadyVerified   = errors.New("user is already verified")
	ErrInvalidCredential = errors.New("invalid email or password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
