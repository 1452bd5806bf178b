package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/apperr"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"high", PriorityHigh, false},
		{"Medium", PriorityMedium, false},
		{"  LOW ", PriorityLow, false},
		{"urgent", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPriority))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDraft_Validate(t *testing.T) {
	deadline := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	valid := Draft{Heading: "Buy milk", Content: "2 litres", Priority: PriorityLow, Deadline: deadline}
	assert.NoError(t, valid.Validate())

	err := Draft{Heading: " ", Priority: "urgent"}.Validate()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)

	var names []string
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	assert.Equal(t, []string{"heading", "content", "priority", "deadline"}, names)
}

func TestTask_Toggled(t *testing.T) {
	orig := Task{ID: "a", Completed: false}
	toggled := orig.Toggled()
	assert.True(t, toggled.Completed)
	assert.False(t, orig.Completed)
	assert.Equal(t, "a", toggled.ID)
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{
		"_id": "65f0c1",
		"heading": "Write report",
		"content": "Q1 numbers",
		"priority": "High",
		"completed": true,
		"createdAt": "2025-02-20T10:11:12.000Z",
		"deadline": "2025-03-01T18:00:00.000Z",
		"__v": 0,
		"user": "u1"
	}`)

	got, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "65f0c1", got.ID)
	assert.Equal(t, "Write report", got.Heading)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.True(t, got.Completed)
	assert.Equal(t, time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), got.Deadline.UTC())
	assert.Equal(t, time.Date(2025, 2, 20, 10, 11, 12, 0, time.UTC), got.CreatedAt.UTC())
}

func TestDecodeJSON_AcceptsPlainID(t *testing.T) {
	got, err := DecodeJSON([]byte(`{"id":"x1","heading":"h","content":"c","priority":"low","createdAt":"2025-01-01","deadline":"2025-01-02"}`))
	require.NoError(t, err)
	assert.Equal(t, "x1", got.ID)
	assert.False(t, got.Completed)
}

func TestDecodeJSON_MissingFields(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"heading":"h","priority":"someday","deadline":"not a date"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	e, _ := apperr.As(err)
	var names []string
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"_id", "content", "priority", "createdAt", "deadline"}, names)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := DecodeJSON([]byte(`<html>`))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDecodeList(t *testing.T) {
	got, err := DecodeList([]byte(`[
		{"_id":"1","heading":"a","content":"x","priority":"low","createdAt":"2025-01-01T00:00:00Z","deadline":"2025-01-05T00:00:00Z"},
		{"_id":"2","heading":"b","content":"y","priority":"medium","completed":true,"createdAt":"2025-01-01T00:00:00Z","deadline":"2025-01-04T00:00:00Z"}
	]`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[1].ID)

	_, err = DecodeList([]byte(`[{"_id":"1"}]`))
	require.Error(t, err)
	e, _ := apperr.As(err)
	assert.Equal(t, "decode tasks[0]", e.Op)

	empty, err := DecodeList([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEncodeTask(t *testing.T) {
	tk := Task{
		ID:        "abc",
		Heading:   "h",
		Content:   "c",
		Priority:  PriorityMedium,
		Completed: true,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Deadline:  time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	data, err := EncodeTask(tk)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, "medium", m["priority"])
	assert.Equal(t, true, m["completed"])
	assert.Equal(t, "2025-01-02T00:00:00.000Z", m["deadline"])
	assert.Equal(t, "2025-01-01T00:00:00.000Z", m["createdAt"])

	data, err = EncodeDraft(tk.Draft())
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal(data, &m))
	_, hasID := m["id"]
	assert.False(t, hasID)

	back, err := DecodeJSON(append([]byte(`{"_id":"abc","createdAt":"2025-01-01T00:00:00Z",`), data[1:]...))
	require.NoError(t, err)
	assert.Equal(t, tk.Heading, back.Heading)
	assert.True(t, tk.Deadline.Equal(back.Deadline))
}
