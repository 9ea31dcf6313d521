package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	goodToken = "good-token"
	ownerID   = "u-1"
)

type fakeUsers struct {
	registerFn func(services.RegisterInput) (*models.User, error)
	verifyFn   func(string) error
	loginFn    func(services.LoginInput) (*services.LoginResult, error)
	logoutFn   func(string) error
	changeFn   func(string, services.ChangePasswordInput) error
	forgotFn   func(services.ForgotPasswordInput) error
	resetFn    func(services.ResetPasswordInput) error
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	return f.registerFn(in)
}
func (f *fakeUsers) Verify(_ context.Context, id string) error { return f.verifyFn(id) }
func (f *fakeUsers) Login(_ context.Context, in services.LoginInput) (*services.LoginResult, error) {
	return f.loginFn(in)
}
func (f *fakeUsers) Logout(_ context.Context, id string) error { return f.logoutFn(id) }
func (f *fakeUsers) ChangePassword(_ context.Context, id string, in services.ChangePasswordInput) error {
	return f.changeFn(id, in)
}
func (f *fakeUsers) ForgotPassword(_ context.Context, in services.ForgotPasswordInput) error {
	return f.forgotFn(in)
}
func (f *fakeUsers) ResetPassword(_ context.Context, in services.ResetPasswordInput) error {
	return f.resetFn(in)
}

// Authenticate accepts only goodToken.
func (f *fakeUsers) Authenticate(_ context.Context, token string) (string, error) {
	if token != goodToken {
		return "", common.ErrInvalidToken
	}
	return ownerID, nil
}

type fakeTasks struct {
	createFn    func(string, services.CreateTaskInput) (*models.Task, error)
	listFn      func(string) ([]*models.Task, error)
	getFn       func(string, string) (*models.Task, error)
	updateFn    func(string, string, services.UpdateTaskInput) (*models.Task, error)
	deleteFn    func(string, string) (*models.Task, error)
	deleteAllFn func(string) (int64, error)
}

func (f *fakeTasks) Create(_ context.Context, u string, in services.CreateTaskInput) (*models.Task, error) {
	return f.createFn(u, in)
}
func (f *fakeTasks) List(_ context.Context, u string) ([]*models.Task, error) { return f.listFn(u) }
func (f *fakeTasks) Get(_ context.Context, u, id string) (*models.Task, error) {
	return f.getFn(u, id)
}
func (f *fakeTasks) Update(_ context.Context, u, id string, in services.UpdateTaskInput) (*models.Task, error) {
	return f.updateFn(u, id, in)
}
func (f *fakeTasks) Delete(_ context.Context, u, id string) (*models.Task, error) {
	return f.deleteFn(u, id)
}
func (f *fakeTasks) DeleteAll(_ context.Context, u string) (int64, error) { return f.deleteAllFn(u) }

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestRouter(us *fakeUsers, ts *fakeTasks) *gin.Engine {
	if us == nil {
		us = &fakeUsers{}
	}
	if ts == nil {
		ts = &fakeTasks{}
	}
	return NewRouter(NewHandler(us, ts, fakePinger{}, logging.Nop{}), nil)
}

// do sends a request and decodes the envelope; data is left raw.
func do(t *testing.T, h http.Handler, method, target, body, token string) (*httptest.ResponseRecorder, envelopeRaw) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelopeRaw
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

type envelopeRaw struct {
	Data            json.RawMessage `json:"data"`
	ResponseMessage string          `json:"responseMessage"`
	ResponseCode    int             `json:"responseCode"`
}
