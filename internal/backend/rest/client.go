// Package rest implements gateway.Gateway and gateway.Authenticator against
// the task backend's JSON-over-HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"taskdash/internal/apperr"
	"taskdash/internal/session"
	"taskdash/internal/task"
)

const (
	// DefaultTimeout bounds each request.
	DefaultTimeout = 10 * time.Second

	// maxBody caps how much of a response is read.
	maxBody = 4 << 20
)

// Client talks to the backend rooted at a base URL such as http://localhost:5000/api.
type Client struct {
	base    string
	timeout time.Duration
	hc      *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", baseURL)
	}
	c := &Client{
		base:    u.String(),
		timeout: DefaultTimeout,
		hc:      http.DefaultClient,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// authed returns a client that sends tok as a Bearer credential.
func (c *Client) authed(tok session.Token) *http.Client {
	base := c.hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(tok), TokenType: "Bearer"}),
			Base:   base,
		},
		Timeout: c.hc.Timeout,
	}
}

// FetchTasks implements gateway.Gateway.
func (c *Client) FetchTasks(ctx context.Context, tok session.Token) ([]task.Task, error) {
	const op = "fetch tasks"
	if tok.Empty() {
		return nil, apperr.Auth(op, "missing token")
	}
	body, err := c.do(ctx, c.authed(tok), op, http.MethodGet, nil, "tasks/")
	if err != nil {
		return nil, err
	}
	return task.DecodeList(body)
}

// AddTask implements gateway.Gateway.
func (c *Client) AddTask(ctx context.Context, tok session.Token, d task.Draft) (task.Task, error) {
	const op = "add task"
	if tok.Empty() {
		return task.Task{}, apperr.Auth(op, "missing token")
	}
	if err := d.Validate(); err != nil {
		return task.Task{}, err
	}
	payload, err := task.EncodeDraft(d)
	if err != nil {
		return task.Task{}, err
	}
	body, err := c.do(ctx, c.authed(tok), op, http.MethodPost, payload, "tasks/")
	if err != nil {
		return task.Task{}, err
	}
	return task.DecodeJSON(body)
}

// EditTask implements gateway.Gateway.
func (c *Client) EditTask(ctx context.Context, tok session.Token, t task.Task) (task.Task, error) {
	const op = "edit task"
	if tok.Empty() {
		return task.Task{}, apperr.Auth(op, "missing token")
	}
	if t.ID == "" {
		return task.Task{}, apperr.Validation(op, apperr.FieldError{Field: "id", Reason: "required"})
	}
	if err := t.Draft().Validate(); err != nil {
		return task.Task{}, err
	}
	payload, err := task.EncodeTask(t)
	if err != nil {
		return task.Task{}, err
	}
	body, err := c.do(ctx, c.authed(tok), op, http.MethodPut, payload, "tasks", url.PathEscape(t.ID))
	if err != nil {
		return task.Task{}, err
	}
	return task.DecodeJSON(body)
}

// DeleteTask implements gateway.Gateway.
func (c *Client) DeleteTask(ctx context.Context, tok session.Token, id string) error {
	const op = "delete task"
	if tok.Empty() {
		return apperr.Auth(op, "missing token")
	}
	if id == "" {
		return apperr.Validation(op, apperr.FieldError{Field: "id", Reason: "required"})
	}
	_, err := c.do(ctx, c.authed(tok), op, http.MethodDelete, nil, "tasks", url.PathEscape(id))
	return err
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authReply struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login implements gateway.Authenticator.
func (c *Client) Login(ctx context.Context, email, password string) (session.Token, error) {
	return c.authenticate(ctx, "login", "login", credentials{Email: email, Password: password})
}

// Register implements gateway.Authenticator.
func (c *Client) Register(ctx context.Context, name, email, password string) (session.Token, error) {
	return c.authenticate(ctx, "register", "register", credentials{Name: name, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, op, endpoint string, creds credentials) (session.Token, error) {
	var fields []apperr.FieldError
	if op == "register" && creds.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Reason: "required"})
	}
	if creds.Email == "" {
		fields = append(fields, apperr.FieldError{Field: "email", Reason: "required"})
	}
	if creds.Password == "" {
		fields = append(fields, apperr.FieldError{Field: "password", Reason: "required"})
	}
	if len(fields) > 0 {
		return "", apperr.Validation(op, fields...)
	}

	payload, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, c.hc, op, http.MethodPost, payload, "auth", endpoint)
	if err != nil {
		return "", err
	}

	var reply authReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", apperr.Malformed(op, err)
	}
	if reply.Token == "" {
		if reply.Message != "" {
			return "", apperr.Auth(op, reply.Message)
		}
		return "", apperr.Malformed(op, errors.New("no token in response"))
	}
	return session.Token(reply.Token), nil
}

// do sends one request under its own timeout and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, hc *http.Client, op, method string, payload []byte, elem ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.JoinPath(c.base, elem...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug("backend request failed", "op", op, "method", method, "url", u, "err", err)
		return nil, apperr.Network(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, apperr.Network(op, err)
	}
	c.log.Debug("backend request", "op", op, "method", method, "url", u,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, statusError(op, resp.StatusCode, body)
}

func statusError(op string, status int, body []byte) error {
	var reply struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &reply)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e := apperr.Auth(op, reply.Message)
		e.Status = status
		return e
	default:
		return apperr.Backend(op, status, reply.Message)
	}
}
