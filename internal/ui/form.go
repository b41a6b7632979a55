package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huaducdat/daily-task-planner/internal/planner"
	"github.com/huaducdat/daily-task-planner/internal/task"
)

type formField int

const (
	fieldTitle formField = iota
	fieldCategory
	fieldDue
	fieldCompleted
	fieldCount
)

// formModel is the add/edit form. It only collects input; saving goes
// through the planner.
type formModel struct {
	mode      planner.FormMode
	id        string
	title     textinput.Model
	category  task.Category
	due       textinput.Model
	completed bool
	focus     formField
	errors    map[string]string
	validator *task.Validator
	keys      formKeyMap
}

func newFormModel(f planner.Form, v *task.Validator) *formModel {
	title := textinput.New()
	title.Placeholder = "e.g., Finish App"
	title.Width = 40
	title.SetValue(f.Initial.Title)

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(task.DateLayout)
	due.Width = len(task.DateLayout) + 1
	due.SetValue(f.Initial.DueDate)

	category, err := task.ParseCategory(f.Initial.Category)
	if err != nil {
		category = task.CategoryWork
	}

	m := &formModel{
		mode:      f.Mode,
		id:        f.Initial.ID,
		title:     title,
		category:  category,
		due:       due,
		completed: f.Initial.Completed(),
		validator: v,
		keys:      defaultFormKeyMap(),
	}
	m.setFocus(fieldTitle)
	return m
}

func (m *formModel) setFocus(f formField) tea.Cmd {
	m.focus = (f + fieldCount) % fieldCount
	m.title.Blur()
	m.due.Blur()
	switch m.focus {
	case fieldTitle:
		return m.title.Focus()
	case fieldDue:
		return m.due.Focus()
	}
	return nil
}

// candidate returns the form values as they would be saved.
func (m *formModel) candidate() task.Candidate {
	completed := m.completed
	return task.Candidate{
		ID:          m.id,
		Title:       m.title.Value(),
		Category:    string(m.category),
		DueDate:     m.due.Value(),
		IsCompleted: &completed,
	}
}

// update handles keys that stay inside the form. Save and cancel are
// handled by the caller.
func (m *formModel) update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus(m.focus - 1)
	}

	switch m.focus {
	case fieldCategory:
		switch {
		case key.Matches(msg, m.keys.Cycle):
			m.category = m.category.Next()
		case key.Matches(msg, m.keys.CycleBack):
			m.category = m.category.Prev()
		}
		delete(m.errors, "category")
		return nil
	case fieldCompleted:
		if key.Matches(msg, m.keys.Toggle) {
			m.completed = !m.completed
		}
		return nil
	case fieldDue:
		var cmd tea.Cmd
		m.due, cmd = m.due.Update(msg)
		delete(m.errors, "dueDate")
		return cmd
	default:
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		delete(m.errors, "title")
		return cmd
	}
}

// dateHint describes the due date input as typed, using the same check
// the validator applies on save. warn is set when saving would fail.
func (m *formModel) dateHint() (hint string, warn bool) {
	raw := strings.TrimSpace(m.due.Value())
	if raw == "" {
		return "", false
	}
	today := m.validator.Today()
	d, err := task.ParseDate(raw, today.Location())
	if err != nil {
		if len(raw) < len(task.DateLayout) {
			return "", false
		}
		return "use YYYY-MM-DD", true
	}
	if !m.validator.DateAllowed(d) {
		return "before today", true
	}
	return d.Weekday().String(), false
}

func (m *formModel) view() string {
	var b strings.Builder

	heading := "Add Task"
	if m.mode == planner.FormEdit {
		heading = "Edit Task"
	}
	b.WriteString(titleStyle.Render(heading) + "\n\n")

	m.writeField(&b, fieldTitle, "Title", m.title.View(), "title")

	category := fmt.Sprintf("< %s >", categoryTag(m.category))
	m.writeField(&b, fieldCategory, "Category", category, "category")

	due := m.due.View()
	if hint, warn := m.dateHint(); hint != "" {
		style := mutedStyle
		if warn {
			style = warnStyle
		}
		due += "  " + style.Render(hint)
	}
	m.writeField(&b, fieldDue, "Due Date", due, "dueDate")

	box := "[ ] No"
	if m.completed {
		box = "[x] " + completedTag(true)
	}
	m.writeField(&b, fieldCompleted, "Completed", box, "")

	return formStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *formModel) writeField(b *strings.Builder, f formField, label, value, errKey string) {
	marker := "  "
	if m.focus == f {
		marker = "> "
	}
	b.WriteString(marker + labelStyle.Render(pad(label, len("Completed"))) + "  " + value + "\n")
	if msg, ok := m.errors[errKey]; ok && errKey != "" {
		b.WriteString("    " + errorStyle.Render(msg) + "\n")
	}
	b.WriteString("\n")
}
