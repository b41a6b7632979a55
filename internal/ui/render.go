package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

const (
	maxTitleWidth = 40
	colGap        = "  "
)

// RenderSummary renders the three counters on one line.
func RenderSummary(s view.Summary) string {
	return fmt.Sprintf("%s %d   %s %d   %s %d",
		labelStyle.Render("Total Tasks:"), s.Total,
		labelStyle.Render("Completed:"), s.Completed,
		labelStyle.Render("Incomplete:"), s.Incomplete,
	)
}

// RenderTable renders tasks as a table. Due dates before today are
// highlighted but otherwise shown as stored.
func RenderTable(tasks []task.Task, today time.Time) string {
	return renderTable(tasks, today, -1)
}

func renderTable(tasks []task.Task, today time.Time, cursor int) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("  No tasks.") + "\n"
	}

	titleWidth := len("Title")
	for _, t := range tasks {
		if w := lipgloss.Width(truncate(t.Title, maxTitleWidth)); w > titleWidth {
			titleWidth = w
		}
	}
	widths := []int{titleWidth, len("Personal"), len(task.DateLayout), len("Completed")}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(row(widths, headerStyle.Render("Title"), headerStyle.Render("Category"),
		headerStyle.Render("Due Date"), headerStyle.Render("Completed")))
	b.WriteString("\n")

	for i, t := range tasks {
		due := t.DueDate
		if t.Overdue(today) && !t.IsCompleted {
			due = warnStyle.Render(due)
		}
		line := row(widths,
			truncate(t.Title, maxTitleWidth),
			categoryTag(t.Category),
			due,
			completedTag(t.IsCompleted),
		)
		if i == cursor {
			b.WriteString("> " + selectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func row(widths []int, cells ...string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = pad(c, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, colGap), " ")
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
