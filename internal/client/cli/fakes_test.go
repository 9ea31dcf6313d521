package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
)

// stubInputs feeds getSimpleText answers in order and getPassword from
// passwords in order.
func stubInputs(t *testing.T, answers []string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		v := answers[0]
		answers = answers[1:]
		return strings.TrimSpace(v), nil
	}
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAPI struct {
	profile *api.Profile

	lastRegister api.RegisterRequest
	lastVerify   string
	lastLogin    [2]string
	lastChange   [2]string
	lastForgot   [2]string
	lastReset    [3]string
	lastCreate   [2]string
	lastUpdate   api.TaskUpdate
	lastTaskID   string
	deleteAllN   int64
	deleteAllHit bool

	tasks []api.Task
	err   error
}

func (f *fakeAPI) Register(_ context.Context, in api.RegisterRequest) (*api.Profile, error) {
	f.lastRegister = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.Profile{ID: "u-1", Email: in.Email}, nil
}

func (f *fakeAPI) Verify(_ context.Context, id string) error {
	f.lastVerify = id
	return f.err
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*api.LoginResult, error) {
	f.lastLogin = [2]string{email, password}
	if f.err != nil {
		return nil, f.err
	}
	f.profile = &api.Profile{ID: "u-1", Email: email, FirstName: "Ada"}
	return &api.LoginResult{UserInfo: *f.profile, Token: "tok"}, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.profile = nil
	return nil
}

func (f *fakeAPI) ChangePassword(_ context.Context, oldPassword, newPassword string) error {
	f.lastChange = [2]string{oldPassword, newPassword}
	return f.err
}

func (f *fakeAPI) ForgotPassword(_ context.Context, email, userID string) error {
	f.lastForgot = [2]string{email, userID}
	return f.err
}

func (f *fakeAPI) ResetPassword(_ context.Context, password, token, userID string) error {
	f.lastReset = [3]string{password, token, userID}
	return f.err
}

func (f *fakeAPI) CreateTask(_ context.Context, name, status string) (*api.Task, error) {
	f.lastCreate = [2]string{name, status}
	if f.err != nil {
		return nil, f.err
	}
	return &api.Task{ID: "t-1", Name: name, Status: status}, nil
}

func (f *fakeAPI) ListTasks(context.Context) ([]api.Task, error) { return f.tasks, f.err }

func (f *fakeAPI) GetTask(_ context.Context, id string) (*api.Task, error) {
	f.lastTaskID = id
	if f.err != nil {
		return nil, f.err
	}
	return &api.Task{ID: id, Name: "buy milk", Status: "pending"}, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id string, upd api.TaskUpdate) (*api.Task, error) {
	f.lastTaskID, f.lastUpdate = id, upd
	if f.err != nil {
		return nil, f.err
	}
	return &api.Task{ID: id}, nil
}

func (f *fakeAPI) DeleteTask(_ context.Context, id string) (*api.Task, error) {
	f.lastTaskID = id
	if f.err != nil {
		return nil, f.err
	}
	return &api.Task{ID: id}, nil
}

func (f *fakeAPI) DeleteAllTasks(context.Context) (int64, error) {
	f.deleteAllHit = true
	return f.deleteAllN, f.err
}

func (f *fakeAPI) Profile() *api.Profile { return f.profile }

func newTestApp(f *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: f, out: &out}, &out
}

func loggedIn() *fakeAPI {
	return &fakeAPI{profile: &api.Profile{ID: "u-1", Email: "ada@example.com"}}
}
