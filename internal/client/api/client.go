package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	profile *Profile
}

// NewClient returns a client for the API rooted at baseURL
// (e.g. "http://localhost:8080/api/").
func NewClient(baseURL string, timeout time.Duration) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// Token returns the current session token, "" when logged out.
func (c *Client) Token() string { return c.token }

// Profile returns the profile from the last login, nil when logged out.
func (c *Client) Profile() *Profile { return c.profile }

type envelope struct {
	Data            json.RawMessage `json:"data"`
	ResponseMessage string          `json:"responseMessage"`
	ResponseCode    int             `json:"responseCode"`
}

// do sends body as JSON and decodes the envelope data into out (if non-nil).
// It returns the server message on success.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}

	if env.ResponseCode != http.StatusOK {
		code := env.ResponseCode
		if code == 0 {
			code = resp.StatusCode
		}
		return "", &Error{Code: code, Message: env.ResponseMessage}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("error decoding response data: %w", err)
		}
	}

	return env.ResponseMessage, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*Profile, error) {
	var p Profile
	if _, err := c.do(ctx, http.MethodPost, "users/register", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Verify(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodGet, "users/verify/"+url.PathEscape(userID), nil, nil, nil)
	return err
}

// Login stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "users/login", nil, body, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	c.profile = &res.UserInfo
	return &res, nil
}

// Logout ends the session on the server and forgets the local token.
func (c *Client) Logout(ctx context.Context) error {
	if c.profile == nil {
		return common.ErrorUnauthorized
	}
	_, err := c.do(ctx, http.MethodPost, "users/logout", nil, map[string]string{"userId": c.profile.ID}, nil)
	if err != nil {
		return err
	}
	c.token = ""
	c.profile = nil
	return nil
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "password": newPassword}
	_, err := c.do(ctx, http.MethodPatch, "users/changepassword", nil, body, nil)
	return err
}

func (c *Client) ForgotPassword(ctx context.Context, email, userID string) error {
	body := map[string]string{"email": email, "userId": userID}
	_, err := c.do(ctx, http.MethodPost, "users/forgotpassword", nil, body, nil)
	return err
}

func (c *Client) ResetPassword(ctx context.Context, password, resetToken, userID string) error {
	body := map[string]string{"password": password, "resetToken": resetToken, "userId": userID}
	_, err := c.do(ctx, http.MethodPut, "users/resetpassword", nil, body, nil)
	return err
}

func (c *Client) CreateTask(ctx context.Context, name, status string) (*Task, error) {
	body := map[string]string{"taskName": name}
	if status != "" {
		body["taskStatus"] = status
	}
	var t Task
	if _, err := c.do(ctx, http.MethodPut, "tasks/createtask", nil, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns the user's tasks. No tasks is an empty slice, not an error.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var list []Task
	_, err := c.do(ctx, http.MethodGet, "tasks/getalltasks", nil, nil, &list)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return []Task{}, nil
		}
		return nil, err
	}
	return list, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	var t Task
	q := url.Values{"taskId": {taskID}}
	if _, err := c.do(ctx, http.MethodGet, "tasks/getsingletask", q, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, upd TaskUpdate) (*Task, error) {
	var t Task
	q := url.Values{"taskId": {taskID}}
	if _, err := c.do(ctx, http.MethodPatch, "tasks/updatesingletask", q, upd, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) (*Task, error) {
	var t Task
	body := map[string]string{"taskId": taskID}
	if _, err := c.do(ctx, http.MethodDelete, "tasks/deletesingletask", nil, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteAllTasks returns how many tasks were removed.
func (c *Client) DeleteAllTasks(ctx context.Context) (int64, error) {
	var res struct {
		Deleted int64 `json:"deleted"`
	}
	if _, err := c.do(ctx, http.MethodDelete, "tasks/deletealltasks", nil, nil, &res); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return res.Deleted, nil
}
