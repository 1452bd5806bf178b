// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/aggregate"
	"taskdash/internal/task"
)

const (
	// SectionSeparator is the separator line under section headers.
	SectionSeparator = "------------"

	// NoTodoText is shown when no task is pending.
	NoTodoText = "No Tasks Yet"

	// NoCompletedText is shown when no task is completed.
	NoCompletedText = "No Completed Task"

	meterWidth = 20
)

// Printer renders dashboard views. Colors are dropped when w is not a terminal.
type Printer struct {
	w io.Writer

	header   lipgloss.Style
	label    lipgloss.Style
	content  lipgloss.Style
	empty    lipgloss.Style
	priority map[task.Priority]lipgloss.Style
	done     lipgloss.Style
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		header:  r.NewStyle().Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("12")),
		content: r.NewStyle().Faint(true),
		empty:   r.NewStyle().Faint(true).Italic(true),
		done:    r.NewStyle().Foreground(lipgloss.Color("10")),
		priority: map[task.Priority]lipgloss.Style{
			task.PriorityHigh:   r.NewStyle().Foreground(lipgloss.Color("9")),
			task.PriorityMedium: r.NewStyle().Foreground(lipgloss.Color("12")),
			task.PriorityLow:    r.NewStyle().Foreground(lipgloss.Color("10")),
		},
	}
}

// Greeting prints the welcome line.
func (p *Printer) Greeting(name string) {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	fmt.Fprintln(p.w, p.header.Render("Welcome back, "+name))
}

// Dashboard prints the To-Do section then the Completed section.
// To-Do tasks are numbered 1..n and completed ones c1..cn, bucket by bucket.
func (p *Printer) Dashboard(buckets []aggregate.Bucket) {
	p.section("To-Do", aggregate.TodoCount(buckets))
	if aggregate.TodoCount(buckets) == 0 {
		fmt.Fprintln(p.w, p.empty.Render(NoTodoText))
	} else {
		n := 0
		for _, b := range buckets {
			if len(b.Todo) == 0 {
				continue
			}
			fmt.Fprintln(p.w, p.label.Render(b.Label))
			for _, t := range b.Todo {
				n++
				p.task(fmt.Sprint(n), t)
			}
		}
	}

	fmt.Fprintln(p.w)
	p.section("Completed", aggregate.CompletedCount(buckets))
	if aggregate.CompletedCount(buckets) == 0 {
		fmt.Fprintln(p.w, p.empty.Render(NoCompletedText))
		return
	}
	n := 0
	for _, b := range buckets {
		if len(b.Completed) == 0 {
			continue
		}
		fmt.Fprintln(p.w, p.label.Render(b.Label))
		for _, t := range b.Completed {
			n++
			p.task(fmt.Sprintf("c%d", n), t)
		}
	}
}

func (p *Printer) section(title string, count int) {
	fmt.Fprintln(p.w, p.header.Render(fmt.Sprintf("%s (%d)", title, count)))
	fmt.Fprintln(p.w, SectionSeparator)
}

// task prints "{REF:>5}  {PRIORITY:<6}  {HEADING}" and the content below it.
func (p *Printer) task(ref string, t task.Task) {
	style, ok := p.priority[t.Priority]
	if !ok {
		style = p.content
	}
	badge := style.Render(string(t.Priority)) + strings.Repeat(" ", max(0, 6-len(t.Priority)))
	fmt.Fprintf(p.w, "%5s  %s  %s\n", ref, badge, normalize(t.Heading))
	if c := normalize(t.Content); c != "(untitled)" {
		fmt.Fprintf(p.w, "%5s  %6s  %s\n", "", "", p.content.Render(c))
	}
}

// Summary prints both completion meters.
func (p *Printer) Summary(s aggregate.Summary) {
	fmt.Fprintln(p.w, p.header.Render(fmt.Sprintf("Tasks (%d)", s.Total())))
	fmt.Fprintln(p.w, SectionSeparator)
	fmt.Fprintf(p.w, "%-10s %s %3d%%  (%d)\n", "Completed", p.done.Render(Meter(s.CompletedPercentage)), s.CompletedPercentage, s.CompletedCount)
	fmt.Fprintf(p.w, "%-10s %s %3d%%  (%d)\n", "Pending", p.priority[task.PriorityHigh].Render(Meter(s.PendingPercentage)), s.PendingPercentage, s.PendingCount)
}

// Meter draws a fixed-width bar for a percentage in [0, 100].
func Meter(pct int) string {
	pct = max(0, min(100, pct))
	filled := int(math.Round(float64(pct) * meterWidth / 100))
	return strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
}

// normalize flattens newlines; empty or whitespace-only text becomes "(untitled)".
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
