// Package gateway defines the backend-agnostic interface for authenticated task operations.
package gateway

import (
	"context"

	"taskdash/internal/session"
	"taskdash/internal/task"
)

// Gateway performs authenticated CRUD against the task backend.
// Every call is an independent request: no retries, no deduplication.
// Failures are returned as *apperr.Error; a failed mutation must be treated
// as not having taken effect until a fresh FetchTasks says otherwise.
type Gateway interface {
	// FetchTasks returns every task owned by the token's user, in backend order.
	FetchTasks(ctx context.Context, tok session.Token) ([]task.Task, error)

	// AddTask creates a task and returns the backend's record, including its ID.
	AddTask(ctx context.Context, tok session.Token, d task.Draft) (task.Task, error)

	// EditTask replaces the editable fields of t.ID, completion flag included.
	EditTask(ctx context.Context, tok session.Token, t task.Task) (task.Task, error)

	// DeleteTask removes a task. Deleting an unknown ID is a not-found error.
	DeleteTask(ctx context.Context, tok session.Token, id string) error
}

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (session.Token, error)
	Register(ctx context.Context, name, email, password string) (session.Token, error)
}

// Backend is a remote that both authenticates users and serves their tasks.
type Backend interface {
	Gateway
	Authenticator
}
