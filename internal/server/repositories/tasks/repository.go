// Package tasks declares the per-user task store and its PostgreSQL
// implementation. Every operation is scoped to an owner; tasks of other
// users are reported as common.ErrorNotFound.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	Get(ctx context.Context, userID, taskID string) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) (*models.Task, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}
