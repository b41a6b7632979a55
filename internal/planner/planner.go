// Package planner connects user intents from a front end to validation, the
// task store and the derived views.
//
// A Planner holds no task data of its own. It tracks which form is open and
// which delete is awaiting confirmation; everything else is recomputed from
// the store on each call to View.
package planner

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/huaducdat/daily-task-planner/internal/logging"
	"github.com/huaducdat/daily-task-planner/internal/store"
	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

// ErrNoPendingDelete is returned when a delete token does not match the
// delete awaiting confirmation.
var ErrNoPendingDelete = errors.New("no matching delete awaiting confirmation")

// FormMode is the state of the add/edit form.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Form describes the open form, if any.
type Form struct {
	Mode FormMode
	// Editing is the task being edited when Mode is FormEdit.
	Editing *task.Task
	// Initial holds the values the form opens with.
	Initial task.Candidate
}

// Open reports whether a form is showing.
func (f Form) Open() bool {
	return f.Mode != FormClosed
}

// DeleteToken identifies one pending delete confirmation.
type DeleteToken struct {
	ID  string
	seq uint64
}

// View is everything a front end needs to render.
type View struct {
	Tasks   []task.Task
	Summary view.Summary
	Filter  view.FilterMode
	Form    Form
	// PendingDelete is the task awaiting confirmation, nil when none.
	PendingDelete *task.Task
	Today         string
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithFilter sets the initial filter mode.
func WithFilter(mode view.FilterMode) Option {
	return func(p *Planner) {
		if mode.Valid() {
			p.filter = mode
		}
	}
}

// WithDefaultCategory sets the category the create form opens with.
func WithDefaultCategory(c task.Category) Option {
	return func(p *Planner) {
		if c.Valid() {
			p.defaultCategory = c
		}
	}
}

// Planner routes intents to the store and computes the view.
type Planner struct {
	store           *store.Store
	validator       *task.Validator
	logger          *log.Logger
	filter          view.FilterMode
	defaultCategory task.Category
	form            Form

	pending    *DeleteToken
	pendingSeq uint64
}

// New returns a planner over s. The store is shared, not copied.
func New(s *store.Store, v *task.Validator, opts ...Option) *Planner {
	if v == nil {
		v = task.NewValidator(nil)
	}
	p := &Planner{
		store:           s,
		validator:       v,
		logger:          logging.Discard(),
		filter:          view.FilterAll,
		defaultCategory: task.CategoryWork,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validator returns the validator used for saves.
func (p *Planner) Validator() *task.Validator {
	return p.validator
}

// OnAddRequested opens the form for a new task with default values.
func (p *Planner) OnAddRequested() Form {
	completed := false
	p.form = Form{
		Mode: FormCreate,
		Initial: task.Candidate{
			Category:    string(p.defaultCategory),
			DueDate:     task.FormatDate(p.validator.Today()),
			IsCompleted: &completed,
		},
	}
	return p.form
}

// OnEditRequested opens the form pre-filled with the task matching id.
func (p *Planner) OnEditRequested(id string) (Form, error) {
	t, err := p.store.Get(id)
	if err != nil {
		p.logger.Error("edit requested for missing task", "task_id", id)
		return p.form, err
	}
	editing := t
	p.form = Form{
		Mode:    FormEdit,
		Editing: &editing,
		Initial: task.CandidateFrom(t),
	}
	return p.form, nil
}

// OnCancelRequested closes the form without touching the store.
func (p *Planner) OnCancelRequested() {
	p.form = Form{}
}

// OnSaveRequested validates c and creates or updates a task depending on
// whether c carries an id. On any error the store is unchanged and the form
// stays open; the error is a task.ValidationErrors for rule failures.
func (p *Planner) OnSaveRequested(c task.Candidate) (task.Task, error) {
	if c.ID != "" {
		return p.update(c)
	}
	return p.create(c)
}

func (p *Planner) create(c task.Candidate) (task.Task, error) {
	v, err := p.validator.Validate(c)
	if err != nil {
		p.logRejected("create", "", err)
		return task.Task{}, err
	}
	created := p.store.Create(v)
	p.logger.Info("task created", "task_id", created.ID, "category", created.Category, "due", created.DueDate)
	p.form = Form{}
	return created, nil
}

func (p *Planner) update(c task.Candidate) (task.Task, error) {
	prior, err := p.store.Get(c.ID)
	if err != nil {
		p.logger.Error("save requested for missing task", "task_id", c.ID)
		return task.Task{}, err
	}

	v, err := p.validator.Validate(c.Inherit(prior))
	if err != nil {
		p.logRejected("update", c.ID, err)
		return task.Task{}, err
	}

	updated, err := p.store.Update(c.ID, v)
	if err != nil {
		p.logger.Error("update refused", "task_id", c.ID, "err", err)
		return task.Task{}, err
	}
	p.logger.Info("task updated", "task_id", updated.ID, "completed", updated.IsCompleted)
	p.form = Form{}
	return updated, nil
}

func (p *Planner) logRejected(op, id string, err error) {
	var verrs task.ValidationErrors
	if errors.As(err, &verrs) {
		p.logger.Debug("task rejected", "op", op, "task_id", id, "codes", verrs.Codes())
		return
	}
	p.logger.Debug("task rejected", "op", op, "task_id", id, "err", err)
}

// RequestDelete starts the confirmation step for deleting id. Any earlier
// pending request is replaced.
func (p *Planner) RequestDelete(id string) (DeleteToken, error) {
	if _, err := p.store.Get(id); err != nil {
		p.logger.Error("delete requested for missing task", "task_id", id)
		return DeleteToken{}, err
	}
	p.pendingSeq++
	tok := DeleteToken{ID: id, seq: p.pendingSeq}
	p.pending = &tok
	return tok, nil
}

// ConfirmDelete performs the delete tok was issued for.
func (p *Planner) ConfirmDelete(tok DeleteToken) error {
	if p.pending == nil || *p.pending != tok {
		return ErrNoPendingDelete
	}
	p.pending = nil

	if err := p.store.Delete(tok.ID); err != nil {
		p.logger.Error("delete refused", "task_id", tok.ID, "err", err)
		return err
	}
	p.logger.Info("task deleted", "task_id", tok.ID)

	if p.form.Mode == FormEdit && p.form.Editing != nil && p.form.Editing.ID == tok.ID {
		p.form = Form{}
	}
	return nil
}

// CancelDelete discards tok. Cancelling a stale token is a no-op.
func (p *Planner) CancelDelete(tok DeleteToken) {
	if p.pending != nil && *p.pending == tok {
		p.pending = nil
	}
}

// PendingDelete returns the token awaiting confirmation.
func (p *Planner) PendingDelete() (DeleteToken, bool) {
	if p.pending == nil {
		return DeleteToken{}, false
	}
	return *p.pending, true
}

// OnFilterChanged switches the filter mode.
func (p *Planner) OnFilterChanged(mode view.FilterMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w %q", view.ErrInvalidFilter, string(mode))
	}
	p.filter = mode
	return nil
}

// Filter returns the active filter mode.
func (p *Planner) Filter() view.FilterMode {
	return p.filter
}

// Form returns the current form state.
func (p *Planner) Form() Form {
	return p.form
}

// View recomputes the filtered list and the summary from the store.
func (p *Planner) View() View {
	all := p.store.List()
	filtered, err := view.FilterByStatus(all, p.filter)
	if err != nil {
		// Unreachable: filter is only set through validated paths.
		filtered = all
	}

	v := View{
		Tasks:   filtered,
		Summary: view.Summarize(all),
		Filter:  p.filter,
		Form:    p.form,
		Today:   task.FormatDate(p.validator.Today()),
	}
	if p.pending != nil {
		if t, err := p.store.Get(p.pending.ID); err == nil {
			v.PendingDelete = &t
		}
	}
	return v
}
