// Package sessiontokens declares the server-side repository contract for
// tokens the server has issued and still honors.
package sessiontokens

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository defines operations for remembering, finding and revoking tokens.
type Repository interface {
	// Create stores token and fills its ID and CreatedAt.
	Create(ctx context.Context, token *models.SessionToken) error

	// FindByToken returns common.ErrorNotFound when the token is absent.
	FindByToken(ctx context.Context, token string) (*models.SessionToken, error)

	// DeleteAllForUser removes every token of the given purpose owned by
	// userID and reports how many were removed. Zero is not an error.
	DeleteAllForUser(ctx context.Context, userID string, purpose models.TokenPurpose) (int64, error)

	// DeleteByToken removes a single token, or returns common.ErrorNotFound.
	DeleteByToken(ctx context.Context, token string) error
}
