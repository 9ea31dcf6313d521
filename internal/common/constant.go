// Package common contains shared constants and sentinel errors used across
// taskkeeper components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// TokenCookieName is the cookie cleared on logout.
	TokenCookieName = "token"

	// MinPasswordLength applies to register, change and reset.
	MinPasswordLength = 6
)
