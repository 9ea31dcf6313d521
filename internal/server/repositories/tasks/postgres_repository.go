package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, user_id, name, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	var status string
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = models.TaskStatus(status)
	return t, nil
}

func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (id, user_id, name, status)
         VALUES ($1, $2, $3, $4)
		 RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, uuid.NewString(), task.UserID, task.Name, string(task.Status)))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	if !validIDs(userID) {
		return nil, nil
	}

	query :=
		`SELECT ` + taskColumns + ` FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	query :=
		`SELECT ` + taskColumns + ` FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	return r.one(ctx, query, userID, taskID)
}

func (r *PostgresRepository) Update(ctx context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET name = COALESCE($3, name), status = COALESCE($4, status), updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + taskColumns

	var name, status any
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	return r.one(ctx, query, userID, taskID, name, status)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, taskID string) (*models.Task, error) {
	query :=
		`DELETE FROM tasks
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + taskColumns

	return r.one(ctx, query, userID, taskID)
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	if !validIDs(userID) {
		return 0, nil
	}

	query :=
		`DELETE FROM tasks
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

// one runs a single-row statement keyed by (taskID, userID) followed by extra args.
func (r *PostgresRepository) one(ctx context.Context, query, userID, taskID string, extra ...any) (*models.Task, error) {
	if !validIDs(userID, taskID) {
		return nil, common.ErrorNotFound
	}

	args := append([]any{taskID, userID}, extra...)

	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}
