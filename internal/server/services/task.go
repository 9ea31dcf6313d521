package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

type CreateTaskInput struct {
	Name   string `json:"taskName" validate:"required"`
	Status string `json:"taskStatus" validate:"omitempty,taskstatus"`
}

// UpdateTaskInput is a partial update; nil fields are left alone.
type UpdateTaskInput struct {
	Name   *string `json:"taskName" validate:"omitempty,min=1"`
	Status *string `json:"taskStatus" validate:"omitempty,taskstatus"`
}

// TaskService manages the tasks of an authenticated user. The owner always
// comes from the session, never from the request body.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		validate:    newValidator(),
		logger:      l.With("module", "task_service"),
	}
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*models.Task, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Status = strings.TrimSpace(in.Status)

	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	status := models.TaskPending
	if in.Status != "" {
		status = models.TaskStatus(in.Status)
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{UserID: userID, Name: in.Name, Status: status})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// List returns the user's tasks, newest first, or common.ErrorNotFound when
// there are none.
func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, common.ErrorNotFound
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if err := requireTaskID(taskID); err != nil {
		return nil, err
	}
	task, err := s.repomanager.Tasks(s.db).Get(ctx, userID, taskID)
	if err != nil {
		return nil, taskErr(err)
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID string, in UpdateTaskInput) (*models.Task, error) {
	if err := requireTaskID(taskID); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Status == nil {
		return nil, fmt.Errorf("%w: taskName or taskStatus is required", common.ErrorValidation)
	}

	var patch models.TaskPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		patch.Name = &name
	}
	if in.Status != nil {
		status := models.TaskStatus(strings.TrimSpace(*in.Status))
		str := string(status)
		in.Status = &str
		patch.Status = &status
	}

	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	task, err := s.repomanager.Tasks(s.db).Update(ctx, userID, taskID, patch)
	if err != nil {
		return nil, taskErr(err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if err := requireTaskID(taskID); err != nil {
		return nil, err
	}
	task, err := s.repomanager.Tasks(s.db).Delete(ctx, userID, taskID)
	if err != nil {
		return nil, taskErr(err)
	}
	return task, nil
}

// DeleteAll removes every task of the user and reports how many went away.
// Nothing to delete is common.ErrorNotFound.
func (s *TaskService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.repomanager.Tasks(s.db).DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error deleting tasks: %w", err)
	}
	if n == 0 {
		return 0, common.ErrorNotFound
	}
	s.logger.Info(ctx, "tasks deleted", "user_id", userID, "count", n)
	return n, nil
}

func requireTaskID(taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return fmt.Errorf("%w: taskId is required", common.ErrorValidation)
	}
	return nil
}

func taskErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("error accessing tasks: %w", err)
}
