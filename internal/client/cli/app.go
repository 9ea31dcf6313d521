// Package cli implements the interactive taskkeeper command line client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
)

// apiClient is the part of api.Client the commands use.
type apiClient interface {
	Register(ctx context.Context, in api.RegisterRequest) (*api.Profile, error)
	Verify(ctx context.Context, userID string) error
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email, userID string) error
	ResetPassword(ctx context.Context, password, resetToken, userID string) error
	CreateTask(ctx context.Context, name, status string) (*api.Task, error)
	ListTasks(ctx context.Context) ([]api.Task, error)
	GetTask(ctx context.Context, taskID string) (*api.Task, error)
	UpdateTask(ctx context.Context, taskID string, upd api.TaskUpdate) (*api.Task, error)
	DeleteTask(ctx context.Context, taskID string) (*api.Task, error)
	DeleteAllTasks(ctx context.Context) (int64, error)
	Profile() *api.Profile
}

type App struct {
	config *config.Config
	api    apiClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerBaseURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to taskkeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.Profile() != nil
}

func (a *App) status() string {
	if p := a.api.Profile(); p != nil {
		return p.Email
	}
	return "guest"
}
