// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskdash/internal/apperr"
	"taskdash/internal/session"
	"taskdash/internal/task"
)

// Secret signs the tokens handed out by FakeGateway.
const Secret = "test-secret"

type fakeUser struct {
	name     string
	password string
}

// FakeGateway is an in-memory backend implementing gateway.Gateway and
// gateway.Authenticator for testing.
type FakeGateway struct {
	mu     sync.RWMutex
	tasks  []task.Task
	users  map[string]fakeUser // email -> user
	tokens map[session.Token]bool

	// Now stamps CreatedAt on new tasks.
	Now func() time.Time

	// Error injection for testing
	FetchErr    error
	AddErr      error
	EditErr     error
	DeleteErr   error
	LoginErr    error
	RegisterErr error

	// Calls counts backend requests that got past the token check.
	Calls int
}

// NewFakeGateway creates an empty backend.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		users:  make(map[string]fakeUser),
		tokens: make(map[session.Token]bool),
		Now:    func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) },
	}
}

// AddUser registers credentials.
func (f *FakeGateway) AddUser(name, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{name: name, password: password}
}

// IssueToken returns a token accepted by the fake, signed with Secret.
func (f *FakeGateway) IssueToken(name string) session.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueLocked(name)
}

func (f *FakeGateway) issueLocked(name string) session.Token {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": name,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(Secret))
	if err != nil {
		panic(err)
	}
	tok := session.Token(s)
	f.tokens[tok] = true
	return tok
}

// Seed adds a task directly, bypassing validation. An empty ID gets a fresh one.
func (f *FakeGateway) Seed(t task.Task) task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = f.Now()
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns the backend's current tasks.
func (f *FakeGateway) Tasks() []task.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]task.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeGateway) authorize(op string, tok session.Token) error {
	if tok.Empty() {
		return apperr.Auth(op, "missing token")
	}
	if !f.tokens[tok] {
		return &apperr.Error{Kind: apperr.KindAuth, Op: op, Status: http.StatusUnauthorized, Message: "invalid token"}
	}
	f.Calls++
	return nil
}

// FetchTasks implements gateway.Gateway.
func (f *FakeGateway) FetchTasks(ctx context.Context, tok session.Token) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize("fetch tasks", tok); err != nil {
		return nil, err
	}
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	out := make([]task.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// AddTask implements gateway.Gateway.
func (f *FakeGateway) AddTask(ctx context.Context, tok session.Token, d task.Draft) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize("add task", tok); err != nil {
		return task.Task{}, err
	}
	if err := d.Validate(); err != nil {
		return task.Task{}, err
	}
	if f.AddErr != nil {
		return task.Task{}, f.AddErr
	}
	t := task.Task{ID: uuid.NewString(), CreatedAt: f.Now()}.WithDraft(d)
	f.tasks = append(f.tasks, t)
	return t, nil
}

// EditTask implements gateway.Gateway.
func (f *FakeGateway) EditTask(ctx context.Context, tok session.Token, t task.Task) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize("edit task", tok); err != nil {
		return task.Task{}, err
	}
	if err := t.Draft().Validate(); err != nil {
		return task.Task{}, err
	}
	if f.EditErr != nil {
		return task.Task{}, f.EditErr
	}
	for i, cur := range f.tasks {
		if cur.ID == t.ID {
			f.tasks[i] = cur.WithDraft(t.Draft())
			return f.tasks[i], nil
		}
	}
	return task.Task{}, apperr.Backend("edit task", http.StatusNotFound, "Task not found")
}

// DeleteTask implements gateway.Gateway.
func (f *FakeGateway) DeleteTask(ctx context.Context, tok session.Token, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize("delete task", tok); err != nil {
		return err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, cur := range f.tasks {
		if cur.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return apperr.Backend("delete task", http.StatusNotFound, "Task not found")
}

// Login implements gateway.Authenticator.
func (f *FakeGateway) Login(ctx context.Context, email, password string) (session.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	u, ok := f.users[email]
	if !ok || u.password != password {
		return "", apperr.Backend("login", http.StatusBadRequest, "Invalid credentials")
	}
	return f.issueLocked(u.name), nil
}

// Register implements gateway.Authenticator.
func (f *FakeGateway) Register(ctx context.Context, name, email, password string) (session.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RegisterErr != nil {
		return "", f.RegisterErr
	}
	if _, exists := f.users[email]; exists {
		return "", apperr.Backend("register", http.StatusBadRequest, "User already exists")
	}
	f.users[email] = fakeUser{name: name, password: password}
	return f.issueLocked(name), nil
}
