package models

import "time"

// TokenPurpose separates login sessions from password reset tokens.
type TokenPurpose string

const (
	PurposeSession TokenPurpose = "session"
	PurposeReset   TokenPurpose = "reset"
)

// SessionToken is an issued token remembered by the server.
type SessionToken struct {
	ID        string
	UserID    string
	Token     string
	Purpose   TokenPurpose
	CreatedAt time.Time
}
