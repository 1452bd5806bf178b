// Package store holds the session's snapshot of tasks.
package store

import (
	"context"
	"sync"

	"taskdash/internal/apperr"
	"taskdash/internal/gateway"
	"taskdash/internal/session"
	"taskdash/internal/task"
)

// Store is read freely and written only by Replace.
type Store struct {
	mu    sync.RWMutex
	tasks []task.Task
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Replace swaps the whole snapshot. IDs must be non-empty and unique;
// on violation the previous snapshot is kept.
func (s *Store) Replace(tasks []task.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return apperr.Validation("replace tasks", apperr.FieldError{Field: "id", Reason: "empty"})
		}
		if _, dup := seen[t.ID]; dup {
			return apperr.Validation("replace tasks", apperr.FieldError{Field: "id", Reason: "duplicate " + t.ID})
		}
		seen[t.ID] = struct{}{}
	}

	next := make([]task.Task, len(tasks))
	copy(next, tasks)

	s.mu.Lock()
	s.tasks = next
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current tasks in insertion order.
func (s *Store) Snapshot() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Find looks up a task by ID.
func (s *Store) Find(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// Refresh fetches through gw and replaces the snapshot only on success.
func (s *Store) Refresh(ctx context.Context, gw gateway.Gateway, tok session.Token) error {
	tasks, err := gw.FetchTasks(ctx, tok)
	if err != nil {
		return err
	}
	return s.Replace(tasks)
}
