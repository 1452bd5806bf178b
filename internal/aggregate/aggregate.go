// Package aggregate derives dashboard views from a task snapshot.
// Results are recomputed on every change and never stored.
package aggregate

import (
	"math"
	"sort"
	"time"

	"taskdash/internal/task"
)

// LabelLayout renders a bucket date as "DD Mon YYYY".
const LabelLayout = "02 Jan 2006"

// Bucket groups the tasks whose deadline falls on one calendar date.
type Bucket struct {
	Date      time.Time // midnight UTC
	Label     string
	Todo      []task.Task
	Completed []task.Task
}

// DateKey returns the calendar date of t in UTC, time of day discarded.
func DateKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GroupByDeadline buckets tasks by deadline date, most future date first.
// Within a bucket both partitions keep the input order.
func GroupByDeadline(tasks []task.Task) []Bucket {
	index := make(map[time.Time]int)
	buckets := make([]Bucket, 0)

	for _, t := range tasks {
		key := DateKey(t.Deadline)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Date: key, Label: key.Format(LabelLayout)})
		}
		if t.Completed {
			buckets[i].Completed = append(buckets[i].Completed, t)
		} else {
			buckets[i].Todo = append(buckets[i].Todo, t)
		}
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.After(buckets[j].Date)
	})
	return buckets
}

// TodoCount sums the to-do partitions.
func TodoCount(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Todo)
	}
	return n
}

// CompletedCount sums the completed partitions.
func CompletedCount(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Completed)
	}
	return n
}

// Flatten returns both partitions in display order: bucket by bucket,
// input order within a bucket.
func Flatten(buckets []Bucket) (todo, completed []task.Task) {
	for _, b := range buckets {
		todo = append(todo, b.Todo...)
		completed = append(completed, b.Completed...)
	}
	return todo, completed
}

// Summary backs the two donut charts.
type Summary struct {
	CompletedCount      int
	PendingCount        int
	CompletedPercentage int
	PendingPercentage   int
}

// Total returns the number of tasks summarized.
func (s Summary) Total() int {
	return s.CompletedCount + s.PendingCount
}

// Summarize counts completed and pending tasks. Percentages are rounded,
// and both are 0 for an empty input.
func Summarize(tasks []task.Task) Summary {
	var s Summary
	for _, t := range tasks {
		if t.Completed {
			s.CompletedCount++
		} else {
			s.PendingCount++
		}
	}
	total := len(tasks)
	if total == 0 {
		return s
	}
	s.CompletedPercentage = percent(s.CompletedCount, total)
	s.PendingPercentage = percent(s.PendingCount, total)
	return s
}

func percent(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * 100))
}
