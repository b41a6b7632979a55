// Package view computes filtered and summarized projections of the task list.
// Everything here is recomputed from the input on each call.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huaducdat/daily-task-planner/internal/task"
)

// ErrInvalidFilter is returned for a mode outside All, Completed, Incomplete.
var ErrInvalidFilter = errors.New("invalid filter mode")

// FilterMode selects tasks by completion status.
type FilterMode string

const (
	FilterAll        FilterMode = "All"
	FilterCompleted  FilterMode = "Completed"
	FilterIncomplete FilterMode = "Incomplete"
)

// FilterModes returns the modes in display order.
func FilterModes() []FilterMode {
	return []FilterMode{FilterAll, FilterCompleted, FilterIncomplete}
}

// Valid reports whether m is a known mode.
func (m FilterMode) Valid() bool {
	switch m {
	case FilterAll, FilterCompleted, FilterIncomplete:
		return true
	}
	return false
}

// Next cycles All -> Completed -> Incomplete -> All.
func (m FilterMode) Next() FilterMode {
	switch m {
	case FilterAll:
		return FilterCompleted
	case FilterCompleted:
		return FilterIncomplete
	default:
		return FilterAll
	}
}

// ParseFilterMode accepts a mode name in any case.
func ParseFilterMode(s string) (FilterMode, error) {
	s = strings.TrimSpace(s)
	for _, m := range FilterModes() {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q, must be one of: All, Completed, Incomplete", ErrInvalidFilter, s)
}

// FilterByStatus returns the tasks matching mode in their original order.
// FilterAll returns tasks unchanged.
func FilterByStatus(tasks []task.Task, mode FilterMode) ([]task.Task, error) {
	switch mode {
	case FilterAll:
		return tasks, nil
	case FilterCompleted, FilterIncomplete:
		want := mode == FilterCompleted
		filtered := make([]task.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.IsCompleted == want {
				filtered = append(filtered, t)
			}
		}
		return filtered, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidFilter, string(mode))
	}
}

// Summary counts tasks by completion.
type Summary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
}

// Summarize counts the full, unfiltered task list.
func Summarize(tasks []task.Task) Summary {
	completed := 0
	for _, t := range tasks {
		if t.IsCompleted {
			completed++
		}
	}
	return Summary{
		Total:      len(tasks),
		Completed:  completed,
		Incomplete: len(tasks) - completed,
	}
}

// DefaultPageSize matches the planner table.
const DefaultPageSize = 5

// Page is one page of a task list.
type Page struct {
	Tasks []task.Task
	// Number is the zero-based page index after clamping.
	Number int
	Count  int
}

// Paginate returns page number of tasks, clamping number into range.
// An empty list has a single empty page.
func Paginate(tasks []task.Task, number, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	count := (len(tasks) + size - 1) / size
	if count == 0 {
		count = 1
	}
	if number < 0 {
		number = 0
	}
	if number >= count {
		number = count - 1
	}
	start := number * size
	end := start + size
	if end > len(tasks) {
		end = len(tasks)
	}
	if start > end {
		start = end
	}
	return Page{Tasks: tasks[start:end], Number: number, Count: count}
}
