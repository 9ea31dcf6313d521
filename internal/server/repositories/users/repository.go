// Package users declares the credential store contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository persists user accounts. Emails are expected already normalized.
// Lookups of absent users return common.ErrorNotFound.
type Repository interface {
	// Create stores user, filling ID and timestamps. A taken email yields
	// common.ErrorDuplicate.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
