// Package client talks to the task list server and keeps a local,
// optimistically updated view of the caller's tasks.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsAuthFailure reports whether err means the stored token is no longer usable.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Update is a partial task update. Nil fields are not sent.
type Update struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Client is a typed wrapper over the HTTP API.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(c *fasthttp.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout bounds requests whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fasthttp.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Register(ctx context.Context, username, password string) (*Credentials, error) {
	return c.authenticate(ctx, "/auth/register", username, password)
}

func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	return c.authenticate(ctx, "/auth/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*Credentials, error) {
	var out transport.AuthResponse
	req := transport.CredentialsRequest{Username: username, Password: password}
	if err := c.do(ctx, fasthttp.MethodPost, path, "", req, &out); err != nil {
		return nil, err
	}
	return &Credentials{Token: out.Token, User: out.User}, nil
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*domain.UserInfo, error) {
	var out domain.UserInfo
	if err := c.do(ctx, fasthttp.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTasks(ctx context.Context, token string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := c.do(ctx, fasthttp.MethodGet, "/todos", token, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, token, text string) (*domain.Task, error) {
	var out domain.Task
	body := map[string]string{"text": text}
	if err := c.do(ctx, fasthttp.MethodPost, "/todos", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, token, id string, update Update) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, fasthttp.MethodPut, "/todos/"+id, token, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/todos/"+id, token, nil, nil)
}

// ClearCompleted returns how many tasks the server removed.
func (c *Client) ClearCompleted(ctx context.Context, token string) (int, error) {
	var out transport.ClearCompletedResponse
	if err := c.do(ctx, fasthttp.MethodDelete, "/todos/completed", token, nil, &out); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		var msg transport.MessageResponse
		_ = json.Unmarshal(resp.Body(), &msg)
		return &APIError{Status: status, Message: msg.Message}
	}
	if out == nil || status == http.StatusNoContent || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
