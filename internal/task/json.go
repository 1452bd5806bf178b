package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskdash/internal/apperr"
)

// DateLayout is the date-only form accepted for deadlines.
const DateLayout = "2006-01-02"

// wireTask mirrors the backend document. Pointers tell "missing" from "zero".
type wireTask struct {
	MongoID   *string `json:"_id,omitempty"`
	ID        *string `json:"id,omitempty"`
	Heading   *string `json:"heading"`
	Content   *string `json:"content"`
	Priority  *string `json:"priority"`
	Completed *bool   `json:"completed"`
	CreatedAt *string `json:"createdAt,omitempty"`
	Deadline  *string `json:"deadline"`
}

// outgoing is the request body for create and edit.
type outgoing struct {
	ID        string `json:"id,omitempty"`
	Heading   string `json:"heading"`
	Content   string `json:"content"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt,omitempty"`
	Deadline  string `json:"deadline"`
}

// EncodeDraft renders the create payload.
func EncodeDraft(d Draft) ([]byte, error) {
	return json.Marshal(outgoing{
		Heading:   d.Heading,
		Content:   d.Content,
		Priority:  string(d.Priority),
		Completed: d.Completed,
		Deadline:  formatTime(d.Deadline),
	})
}

// EncodeTask renders the edit payload, which carries the whole record.
func EncodeTask(t Task) ([]byte, error) {
	o := outgoing{
		ID:        t.ID,
		Heading:   t.Heading,
		Content:   t.Content,
		Priority:  string(t.Priority),
		Completed: t.Completed,
		Deadline:  formatTime(t.Deadline),
	}
	if !t.CreatedAt.IsZero() {
		o.CreatedAt = formatTime(t.CreatedAt)
	}
	return json.Marshal(o)
}

// DecodeJSON decodes a single backend task.
func DecodeJSON(data []byte) (Task, error) {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return Task{}, apperr.Malformed("decode task", err)
	}
	return w.toTask()
}

// DecodeList decodes the backend's task array.
func DecodeList(data []byte) ([]Task, error) {
	var ws []wireTask
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, apperr.Malformed("decode tasks", err)
	}
	out := make([]Task, 0, len(ws))
	for i, w := range ws {
		t, err := w.toTask()
		if err != nil {
			if e, ok := apperr.As(err); ok {
				e.Op = fmt.Sprintf("decode tasks[%d]", i)
			}
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (w wireTask) toTask() (Task, error) {
	var fields []apperr.FieldError
	missing := func(name string) {
		fields = append(fields, apperr.FieldError{Field: name, Reason: "missing"})
	}

	var t Task
	switch {
	case w.MongoID != nil && *w.MongoID != "":
		t.ID = *w.MongoID
	case w.ID != nil && *w.ID != "":
		t.ID = *w.ID
	default:
		missing("_id")
	}

	if w.Heading == nil {
		missing("heading")
	} else {
		t.Heading = *w.Heading
	}
	if w.Content == nil {
		missing("content")
	} else {
		t.Content = *w.Content
	}

	if w.Priority == nil {
		missing("priority")
	} else if p, err := ParsePriority(*w.Priority); err != nil {
		fields = append(fields, apperr.FieldError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", *w.Priority)})
	} else {
		t.Priority = p
	}

	if w.Completed != nil {
		t.Completed = *w.Completed
	}

	if w.CreatedAt == nil {
		missing("createdAt")
	} else if ts, err := ParseTime(*w.CreatedAt); err != nil {
		fields = append(fields, apperr.FieldError{Field: "createdAt", Reason: err.Error()})
	} else {
		t.CreatedAt = ts
	}

	if w.Deadline == nil {
		missing("deadline")
	} else if ts, err := ParseTime(*w.Deadline); err != nil {
		fields = append(fields, apperr.FieldError{Field: "deadline", Reason: err.Error()})
	} else {
		t.Deadline = ts
	}

	if len(fields) > 0 {
		return Task{}, apperr.Validation("decode task", fields...)
	}
	return t, nil
}

// ParseTime accepts RFC 3339 timestamps and bare dates (read as UTC midnight).
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(DateLayout, s); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
