// Package script replays planner intents from JSON Lines input.
//
// Each non-blank line is one event:
//
//	{"op":"add","task":{"title":"Read","category":"Study","dueDate":"2024-07-01"}}
//	{"op":"edit","id":"t2","task":{"title":"Gym","category":"Personal","dueDate":"2024-07-02","isCompleted":false}}
//	{"op":"delete","id":"t1"}
//	{"op":"delete","id":"t1","confirm":false}
//	{"op":"filter","mode":"Completed"}
//
// Lines starting with # are comments. Every line is checked against an
// embedded JSON Schema before it is decoded; the task rules themselves are
// applied later by the planner, so a structurally valid event can still be
// rejected when it is applied.
package script

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/huaducdat/daily-task-planner/internal/planner"
	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

// SchemaURL identifies the event schema inside a jsonschema.Compiler.
const SchemaURL = "planner://script.schema.json"

//go:embed script.schema.json
var eventSchema string

// maxLine bounds a single event line.
const maxLine = 1 << 20

// Op is an event kind.
type Op string

const (
	OpAdd    Op = "add"
	OpEdit   Op = "edit"
	OpDelete Op = "delete"
	OpFilter Op = "filter"
)

// Event is one decoded script line.
type Event struct {
	Line int            `json:"-"`
	Op   Op             `json:"op"`
	ID   string         `json:"id,omitempty"`
	Task task.Candidate `json:"task"`
	// Confirm answers the delete confirmation. Nil confirms.
	Confirm *bool  `json:"confirm,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// Confirmed reports whether a delete event confirms.
func (e Event) Confirmed() bool {
	return e.Confirm == nil || *e.Confirm
}

// Status is the result class of an applied event.
type Status string

const (
	StatusOK       Status = "ok"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Outcome reports what happened to one event.
type Outcome struct {
	Event  Event
	Status Status
	// Task is the stored task after a successful add or edit.
	Task *task.Task
	// Codes lists the failed rules when Status is StatusRejected.
	Codes []task.Code
	Err   error
}

func (o Outcome) String() string {
	head := fmt.Sprintf("line %d: %s", o.Event.Line, o.Event.Op)
	if o.Event.ID != "" {
		head += " " + o.Event.ID
	}
	switch o.Status {
	case StatusOK:
		if o.Task != nil {
			return fmt.Sprintf("%s: ok (%s)", head, o.Task.ID)
		}
		return head + ": ok"
	case StatusRejected:
		codes := make([]string, len(o.Codes))
		for i, c := range o.Codes {
			codes[i] = string(c)
		}
		return fmt.Sprintf("%s: rejected [%s]", head, strings.Join(codes, ", "))
	default:
		return fmt.Sprintf("%s: failed: %v", head, o.Err)
	}
}

// CompileSchema returns the compiled event schema.
func CompileSchema() (*jsonschema.Schema, error) {
	compiler, err := task.NewCompiler()
	if err != nil {
		return nil, err
	}
	if err := compiler.AddResource(SchemaURL, strings.NewReader(eventSchema)); err != nil {
		return nil, fmt.Errorf("add script schema: %w", err)
	}
	schema, err := compiler.Compile(SchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile script schema: %w", err)
	}
	return schema, nil
}

// Parse reads every event from r. The first malformed line stops parsing and
// is reported as a *task.ValidationError whose path starts with the line
// number.
func Parse(r io.Reader) ([]Event, error) {
	schema, err := CompileSchema()
	if err != nil {
		return nil, err
	}

	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ev, err := parseLine(schema, []byte(line))
		if err != nil {
			return nil, lineError(lineNo, err)
		}
		ev.Line = lineNo
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return events, nil
}

func parseLine(schema *jsonschema.Schema, data []byte) (Event, error) {
	if errs := task.ValidateAgainst(schema, data); len(errs) > 0 {
		return Event{}, errs[0]
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}

func lineError(lineNo int, err error) error {
	path := fmt.Sprintf("line %d", lineNo)
	var ve *task.ValidationError
	if errors.As(err, &ve) {
		if ve.Path != "" {
			path += ": " + ve.Path
		}
		return &task.ValidationError{Path: path, Err: ve.Err}
	}
	return &task.ValidationError{Path: path, Err: err}
}

// Apply drives p with events in order and reports one outcome per event.
// A rejected or failed event does not stop the run. Cancelling ctx stops
// before the next event.
func Apply(ctx context.Context, p *planner.Planner, events []Event) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(events))
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, applyOne(p, ev))
	}
	return outcomes, nil
}

func applyOne(p *planner.Planner, ev Event) Outcome {
	out := Outcome{Event: ev, Status: StatusOK}

	switch ev.Op {
	case OpAdd:
		p.OnAddRequested()
		c := ev.Task
		c.ID = ""
		saved, err := p.OnSaveRequested(c)
		if err != nil {
			p.OnCancelRequested()
			return failure(out, err)
		}
		out.Task = &saved

	case OpEdit:
		if _, err := p.OnEditRequested(ev.ID); err != nil {
			return failure(out, err)
		}
		c := ev.Task
		c.ID = ev.ID
		saved, err := p.OnSaveRequested(c)
		if err != nil {
			p.OnCancelRequested()
			return failure(out, err)
		}
		out.Task = &saved

	case OpDelete:
		tok, err := p.RequestDelete(ev.ID)
		if err != nil {
			return failure(out, err)
		}
		if !ev.Confirmed() {
			p.CancelDelete(tok)
			return out
		}
		if err := p.ConfirmDelete(tok); err != nil {
			return failure(out, err)
		}

	case OpFilter:
		mode, err := view.ParseFilterMode(ev.Mode)
		if err != nil {
			return failure(out, err)
		}
		if err := p.OnFilterChanged(mode); err != nil {
			return failure(out, err)
		}

	default:
		return failure(out, fmt.Errorf("unknown op %q", ev.Op))
	}
	return out
}

func failure(out Outcome, err error) Outcome {
	out.Err = err
	var verrs task.ValidationErrors
	if errors.As(err, &verrs) {
		out.Status = StatusRejected
		out.Codes = verrs.Codes()
		return out
	}
	out.Status = StatusFailed
	return out
}

// Counts tallies outcomes by status.
func Counts(outcomes []Outcome) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}
