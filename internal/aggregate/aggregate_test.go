package aggregate

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/task"
)

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func mk(id string, deadline time.Time, completed bool) task.Task {
	return task.Task{ID: id, Heading: id, Content: id, Priority: task.PriorityMedium, Deadline: deadline, Completed: completed}
}

func ids(ts []task.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestGroupByDeadline_Empty(t *testing.T) {
	got := GroupByDeadline(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGroupByDeadline(t *testing.T) {
	tasks := []task.Task{
		mk("a", at(2025, 3, 1, 9), false),
		mk("b", at(2025, 3, 3, 23), true),
		mk("c", at(2025, 3, 1, 18), true),
		mk("d", at(2025, 3, 1, 0), false),
		mk("e", at(2025, 2, 27, 12), false),
	}

	got := GroupByDeadline(tasks)
	require.Len(t, got, 3)

	assert.Equal(t, at(2025, 3, 3, 0), got[0].Date)
	assert.Equal(t, "03 Mar 2025", got[0].Label)
	assert.Empty(t, got[0].Todo)
	assert.Equal(t, []string{"b"}, ids(got[0].Completed))

	assert.Equal(t, "01 Mar 2025", got[1].Label)
	assert.Equal(t, []string{"a", "d"}, ids(got[1].Todo))
	assert.Equal(t, []string{"c"}, ids(got[1].Completed))

	assert.Equal(t, "27 Feb 2025", got[2].Label)
	assert.Equal(t, []string{"e"}, ids(got[2].Todo))

	assert.Equal(t, 3, TodoCount(got))
	assert.Equal(t, 2, CompletedCount(got))

	todo, done := Flatten(got)
	assert.Equal(t, []string{"a", "d", "e"}, ids(todo))
	assert.Equal(t, []string{"b", "c"}, ids(done))
}

func TestGroupByDeadline_UsesUTCDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 01:00 on the 2nd in Tokyo is still the 1st in UTC.
	got := GroupByDeadline([]task.Task{mk("a", time.Date(2025, 3, 2, 1, 0, 0, 0, tokyo), false)})
	require.Len(t, got, 1)
	assert.Equal(t, "01 Mar 2025", got[0].Label)
}

func TestGroupByDeadline_Partitions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := at(2025, 1, 1, 0)

	for round := 0; round < 50; round++ {
		n := rng.Intn(40)
		tasks := make([]task.Task, n)
		for i := range tasks {
			deadline := base.Add(time.Duration(rng.Intn(10*24)) * time.Hour)
			tasks[i] = mk(fmt.Sprintf("t%d", i), deadline, rng.Intn(2) == 0)
		}

		buckets := GroupByDeadline(tasks)

		seen := make(map[string]int)
		total := 0
		for i, b := range buckets {
			require.NotZero(t, len(b.Todo)+len(b.Completed), "empty bucket")
			if i > 0 {
				require.True(t, buckets[i-1].Date.After(b.Date), "buckets not strictly descending")
			}
			for _, tk := range b.Todo {
				require.False(t, tk.Completed)
				require.Equal(t, b.Date, DateKey(tk.Deadline))
				seen[tk.ID]++
			}
			for _, tk := range b.Completed {
				require.True(t, tk.Completed)
				require.Equal(t, b.Date, DateKey(tk.Deadline))
				seen[tk.ID]++
			}
			total += len(b.Todo) + len(b.Completed)
		}
		require.Equal(t, n, total)
		for _, tk := range tasks {
			require.Equal(t, 1, seen[tk.ID], "task %s placed %d times", tk.ID, seen[tk.ID])
		}
	}
}

func TestGroupByDeadline_StableOrder(t *testing.T) {
	day := at(2025, 5, 5, 0)
	var tasks []task.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, mk(fmt.Sprintf("%02d", i), day.Add(time.Duration(9-i)*time.Hour), i%3 == 0))
	}

	got := GroupByDeadline(tasks)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"01", "02", "04", "05", "07", "08"}, ids(got[0].Todo))
	assert.Equal(t, []string{"00", "03", "06", "09"}, ids(got[0].Completed))
}

func TestSummarize(t *testing.T) {
	day := at(2025, 1, 1, 0)
	tests := []struct {
		name      string
		completed int
		pending   int
		want      Summary
	}{
		{"empty", 0, 0, Summary{}},
		{"three of four", 3, 1, Summary{3, 1, 75, 25}},
		{"two of three rounds up", 2, 1, Summary{2, 1, 67, 33}},
		{"one of eight rounds half up", 1, 7, Summary{1, 7, 13, 88}},
		{"all pending", 0, 5, Summary{0, 5, 0, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tasks []task.Task
			for i := 0; i < tt.completed; i++ {
				tasks = append(tasks, mk(fmt.Sprintf("c%d", i), day, true))
			}
			for i := 0; i < tt.pending; i++ {
				tasks = append(tasks, mk(fmt.Sprintf("p%d", i), day, false))
			}
			got := Summarize(tasks)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.completed+tt.pending, got.Total())
		})
	}
}
