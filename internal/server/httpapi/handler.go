package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the account API the handlers depend on.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Verify(ctx context.Context, userID string) error
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID string, in services.ChangePasswordInput) error
	ForgotPassword(ctx context.Context, in services.ForgotPasswordInput) error
	ResetPassword(ctx context.Context, in services.ResetPasswordInput) error
	Authenticate(ctx context.Context, token string) (string, error)
}

// TaskService is the task API the handlers depend on.
type TaskService interface {
	Create(ctx context.Context, userID string, in services.CreateTaskInput) (*models.Task, error)
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Get(ctx context.Context, userID, taskID string) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, in services.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) (*models.Task, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

// Pinger reports database health. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	users  UserService
	tasks  TaskService
	db     Pinger
	logger logging.Logger
}

func NewHandler(us UserService, ts TaskService, db Pinger, l logging.Logger) *Handler {
	return &Handler{users: us, tasks: ts, db: db, logger: l.With("module", "http_handler")}
}

// bind decodes a JSON body into dst. A missing body leaves dst untouched.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}
