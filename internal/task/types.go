package task

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical due date format.
const DateLayout = "2006-01-02"

// Category groups tasks.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryStudy    Category = "Study"
)

// Categories returns the allowed categories in display order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryStudy}
}

// Valid reports whether c is one of the allowed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryStudy:
		return true
	}
	return false
}

// Next returns the category after c, wrapping around. Unknown values map to Work.
func (c Category) Next() Category {
	all := Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+1)%len(all)]
		}
	}
	return CategoryWork
}

// Prev returns the category before c, wrapping around.
func (c Category) Prev() Category {
	all := Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return CategoryWork
}

// ParseCategory matches s against the allowed categories, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q, must be one of: Work, Personal, Study", s)
}

// Task is a single planner entry.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	DueDate     string   `json:"dueDate"`
	IsCompleted bool     `json:"isCompleted"`
}

// Due parses the due date in loc.
func (t *Task) Due(loc *time.Location) (time.Time, error) {
	return ParseDate(t.DueDate, loc)
}

// Overdue reports whether an incomplete task is due before today.
// It is informational only; stored tasks are never invalidated.
func (t *Task) Overdue(today time.Time) bool {
	if t.IsCompleted {
		return false
	}
	due, err := t.Due(today.Location())
	if err != nil {
		return false
	}
	return due.Before(StartOfDay(today))
}

// Candidate is unvalidated user input for a create or an edit.
// An empty ID means create. A nil IsCompleted means the field was left untouched.
type Candidate struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	DueDate     string `json:"dueDate"`
	IsCompleted *bool  `json:"isCompleted,omitempty"`
}

// CandidateFrom returns a candidate pre-filled from an existing task.
func CandidateFrom(t Task) Candidate {
	completed := t.IsCompleted
	return Candidate{
		ID:          t.ID,
		Title:       t.Title,
		Category:    string(t.Category),
		DueDate:     t.DueDate,
		IsCompleted: &completed,
	}
}

// Inherit fills fields the candidate left untouched from prior.
// Only the completion flag has an "untouched" state.
func (c Candidate) Inherit(prior Task) Candidate {
	if c.IsCompleted == nil {
		completed := prior.IsCompleted
		c.IsCompleted = &completed
	}
	return c
}

// Completed returns the completion flag, treating nil as false.
func (c Candidate) Completed() bool {
	return c.IsCompleted != nil && *c.IsCompleted
}

// Validated is a candidate that passed every rule, normalized for storage.
type Validated struct {
	Title       string
	Category    Category
	DueDate     string
	IsCompleted bool
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
