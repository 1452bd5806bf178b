// Package task defines the task record exchanged with the backend.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskdash/internal/apperr"
)

// ErrInvalidPriority is wrapped by ParsePriority failures.
var ErrInvalidPriority = errors.New("task: invalid priority")

// Priority is stored lowercase.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether p is one of the three known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ParsePriority accepts any casing and surrounding space.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// Task is one user-owned to-do item.
type Task struct {
	ID        string
	Heading   string
	Content   string
	Priority  Priority
	Completed bool
	CreatedAt time.Time
	Deadline  time.Time
}

// Draft returns the editable fields of t.
func (t Task) Draft() Draft {
	return Draft{
		Heading:   t.Heading,
		Content:   t.Content,
		Priority:  t.Priority,
		Deadline:  t.Deadline,
		Completed: t.Completed,
	}
}

// Toggled returns a copy of t with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// WithDraft returns a copy of t carrying d's editable fields.
// ID and CreatedAt are kept.
func (t Task) WithDraft(d Draft) Task {
	t.Heading = d.Heading
	t.Content = d.Content
	t.Priority = d.Priority
	t.Deadline = d.Deadline
	t.Completed = d.Completed
	return t
}

// Draft is the payload for creating or editing a task.
type Draft struct {
	Heading   string
	Content   string
	Priority  Priority
	Deadline  time.Time
	Completed bool
}

// Validate reports every missing or invalid field at once.
func (d Draft) Validate() error {
	var fields []apperr.FieldError
	if strings.TrimSpace(d.Heading) == "" {
		fields = append(fields, apperr.FieldError{Field: "heading", Reason: "required"})
	}
	if strings.TrimSpace(d.Content) == "" {
		fields = append(fields, apperr.FieldError{Field: "content", Reason: "required"})
	}
	if !d.Priority.IsValid() {
		fields = append(fields, apperr.FieldError{Field: "priority", Reason: "must be high, medium or low"})
	}
	if d.Deadline.IsZero() {
		fields = append(fields, apperr.FieldError{Field: "deadline", Reason: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("validate task", fields...)
	}
	return nil
}
