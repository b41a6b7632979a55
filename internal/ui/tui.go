// Package ui renders the planner in a terminal.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huaducdat/daily-task-planner/internal/planner"
	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	pageSize  int
	altScreen bool
}

// WithPageSize sets the number of rows per page.
func WithPageSize(n int) TUIOption {
	return func(c *tuiConfig) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// RunTUI runs the interactive planner until the user quits or ctx ends.
func RunTUI(ctx context.Context, p *planner.Planner, opts ...TUIOption) error {
	c := &tuiConfig{
		pageSize:  view.DefaultPageSize,
		altScreen: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(newTUIModel(p, c.pageSize), programOpts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type tuiModel struct {
	planner  *planner.Planner
	keys     keyMap
	confirm  confirmKeyMap
	help     help.Model
	pageSize int
	page     int
	cursor   int
	showHelp bool

	form    *formModel
	pending *planner.DeleteToken

	status    string
	statusErr bool
}

func newTUIModel(p *planner.Planner, pageSize int) *tuiModel {
	if pageSize < 1 {
		pageSize = view.DefaultPageSize
	}
	return &tuiModel{
		planner:  p,
		keys:     defaultKeyMap(),
		confirm:  defaultConfirmKeyMap(),
		help:     help.New(),
		pageSize: pageSize,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.pending != nil:
			return m, m.updateConfirm(msg)
		case m.form != nil:
			return m, m.updateForm(msg)
		case m.showHelp:
			m.showHelp = false
			return m, nil
		default:
			return m, m.updateList(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PrevPage):
		m.turnPage(-1)
	case key.Matches(msg, m.keys.NextPage):
		m.turnPage(1)
	case key.Matches(msg, m.keys.Filter):
		m.setFilter(m.planner.Filter().Next())
	case key.Matches(msg, m.keys.All):
		m.setFilter(view.FilterAll)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(view.FilterCompleted)
	case key.Matches(msg, m.keys.Incomplete):
		m.setFilter(view.FilterIncomplete)
	case key.Matches(msg, m.keys.Add):
		m.form = newFormModel(m.planner.OnAddRequested(), m.planner.Validator())
		m.clearStatus()
		return m.form.setFocus(fieldTitle)
	case key.Matches(msg, m.keys.Edit):
		sel := m.selected()
		if sel == nil {
			return nil
		}
		f, err := m.planner.OnEditRequested(sel.ID)
		if err != nil {
			m.setError(err)
			return nil
		}
		m.form = newFormModel(f, m.planner.Validator())
		m.clearStatus()
		return m.form.setFocus(fieldTitle)
	case key.Matches(msg, m.keys.Delete):
		sel := m.selected()
		if sel == nil {
			return nil
		}
		tok, err := m.planner.RequestDelete(sel.ID)
		if err != nil {
			m.setError(err)
			return nil
		}
		m.pending = &tok
	}
	return nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.keys.Cancel):
		m.planner.OnCancelRequested()
		m.form = nil
		return nil
	case key.Matches(msg, m.form.keys.Save):
		saved, err := m.planner.OnSaveRequested(m.form.candidate())
		if err != nil {
			var verrs task.ValidationErrors
			if errors.As(err, &verrs) {
				m.form.errors = verrs.ByField()
				return nil
			}
			m.planner.OnCancelRequested()
			m.form = nil
			m.setError(err)
			return nil
		}
		if m.form.mode == planner.FormCreate {
			m.page = 0
			m.cursor = 0
			m.status = fmt.Sprintf("Added %q", saved.Title)
		} else {
			m.status = fmt.Sprintf("Updated %q", saved.Title)
		}
		m.statusErr = false
		m.form = nil
		return nil
	}
	return m.form.update(msg)
}

func (m *tuiModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.confirm.Yes):
		tok := *m.pending
		m.pending = nil
		if err := m.planner.ConfirmDelete(tok); err != nil {
			m.setError(err)
			return nil
		}
		m.status = "Task deleted"
		m.statusErr = false
		m.clampCursor()
	case key.Matches(msg, m.confirm.No):
		m.planner.CancelDelete(*m.pending)
		m.pending = nil
	}
	return nil
}

func (m *tuiModel) setFilter(mode view.FilterMode) {
	if err := m.planner.OnFilterChanged(mode); err != nil {
		m.setError(err)
		return
	}
	m.page = 0
	m.cursor = 0
}

func (m *tuiModel) currentPage() view.Page {
	p := view.Paginate(m.planner.View().Tasks, m.page, m.pageSize)
	m.page = p.Number
	return p
}

func (m *tuiModel) turnPage(delta int) {
	m.page += delta
	m.cursor = 0
	m.currentPage()
}

func (m *tuiModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	n := len(m.currentPage().Tasks)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() *task.Task {
	page := m.currentPage()
	if m.cursor < 0 || m.cursor >= len(page.Tasks) {
		return nil
	}
	t := page.Tasks[m.cursor]
	return &t
}

func (m *tuiModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *tuiModel) clearStatus() {
	m.status = ""
	m.statusErr = false
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		b.WriteString(labelStyle.Render("Keyboard Shortcuts") + "\n\n")
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
		b.WriteString("\n\n" + mutedStyle.Render("Press any key to return") + "\n")
		return b.String()
	}

	if m.form != nil {
		b.WriteString(m.form.view())
		b.WriteString("\n\n" + m.help.ShortHelpView(m.form.keys.ShortHelp()) + "\n")
		return b.String()
	}

	v := m.planner.View()
	b.WriteString(RenderSummary(v.Summary) + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("Show:"), v.Filter))

	page := m.currentPage()
	b.WriteString(renderTable(page.Tasks, m.planner.Validator().Today(), m.cursor))
	if page.Count > 1 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  Page %d/%d", page.Number+1, page.Count)) + "\n")
	}
	b.WriteString("\n")

	if m.pending != nil && v.PendingDelete != nil {
		b.WriteString(writeConfirm(v.PendingDelete) + "\n")
		b.WriteString(m.help.ShortHelpView(m.confirm.ShortHelp()) + "\n")
		return b.String()
	}

	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status) + "\n\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()) + "\n")
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Daily Task Planner"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeConfirm(t *task.Task) string {
	body := labelStyle.Render("Delete Task") + "\n\n" +
		fmt.Sprintf("Are you sure you want to delete %q?", t.Title)
	return dialogStyle.Render(body)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
