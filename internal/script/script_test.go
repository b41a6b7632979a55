package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/huaducdat/daily-task-planner/internal/planner"
	"github.com/huaducdat/daily-task-planner/internal/store"
	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

func newPlanner(t *testing.T) (*planner.Planner, *store.Store) {
	t.Helper()
	clock, err := task.FixedDay("2024-06-28", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	s := store.NewSeeded(store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}))
	return planner.New(s, task.NewValidator(clock)), s
}

const scenario = `# seed has t1 and t2
{"op":"add","task":{"title":"Read","category":"Study","dueDate":"2024-06-28"}}

{"op":"edit","id":"t2","task":{"title":"Gym","category":"Personal","dueDate":"2024-07-02","isCompleted":false}}
{"op":"delete","id":"t1"}
{"op":"delete","id":"t1"}
`

func TestParse(t *testing.T) {
	events, err := Parse(strings.NewReader(scenario))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("len: got %d, want 4", len(events))
	}

	wantLines := []int{2, 4, 5, 6}
	wantOps := []Op{OpAdd, OpEdit, OpDelete, OpDelete}
	for i, ev := range events {
		if ev.Line != wantLines[i] || ev.Op != wantOps[i] {
			t.Errorf("event %d: got line %d op %s, want line %d op %s", i, ev.Line, ev.Op, wantLines[i], wantOps[i])
		}
	}
	if events[0].Task.Title != "Read" || events[0].Task.IsCompleted != nil {
		t.Errorf("add task: got %+v", events[0].Task)
	}
	if events[1].Task.IsCompleted == nil || *events[1].Task.IsCompleted {
		t.Errorf("edit isCompleted: got %v, want explicit false", events[1].Task.IsCompleted)
	}
	if !events[2].Confirmed() {
		t.Error("delete without confirm should confirm")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{"malformed json", `{"op":`, "line 1"},
		{"unknown op", `{"op":"toggle","id":"t1"}`, "line 1"},
		{"add without task", "\n" + `{"op":"add"}`, "line 2"},
		{"edit without id", `{"op":"edit","task":{"title":"x"}}`, "line 1"},
		{"wrong field type", `{"op":"add","task":{"title":"x","isCompleted":"yes"}}`, "line 1: task.isCompleted"},
		{"unknown task field", `{"op":"add","task":{"title":"x","priority":1}}`, "line 1"},
		{"unknown event field", `{"op":"filter","mode":"All","extra":true}`, "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var ve *task.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("got %v, want *task.ValidationError", err)
			}
			if !strings.HasPrefix(ve.Path, tt.wantPath) {
				t.Errorf("path: got %q, want prefix %q", ve.Path, tt.wantPath)
			}
		})
	}
}

func TestParseLongTitle(t *testing.T) {
	long := strings.Repeat("a", 201)
	input := `{"op":"add","task":{"title":"` + long + `","category":"Work","dueDate":"2024-06-28"}}`
	events, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	p, s := newPlanner(t)
	outcomes, err := Apply(context.Background(), p, events)
	if err != nil {
		t.Fatal(err)
	}
	if outcomes[0].Status != StatusOK || s.List()[0].Title != long {
		t.Errorf("got %s (%v)", outcomes[0].Status, outcomes[0].Err)
	}
}

func TestApplyScenario(t *testing.T) {
	p, _ := newPlanner(t)
	events, err := Parse(strings.NewReader(scenario))
	if err != nil {
		t.Fatal(err)
	}

	outcomes, err := Apply(context.Background(), p, events)
	if err != nil {
		t.Fatal(err)
	}

	wantStatus := []Status{StatusOK, StatusOK, StatusOK, StatusFailed}
	for i, o := range outcomes {
		if o.Status != wantStatus[i] {
			t.Errorf("outcome %d: got %s (%v), want %s", i, o.Status, o.Err, wantStatus[i])
		}
	}
	if outcomes[0].Task == nil || outcomes[0].Task.ID != "s1" {
		t.Errorf("add outcome task: got %+v", outcomes[0].Task)
	}
	if !errors.Is(outcomes[3].Err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", outcomes[3].Err)
	}

	if got, want := p.View().Summary, (view.Summary{Total: 2, Completed: 0, Incomplete: 2}); got != want {
		t.Errorf("summary: got %+v, want %+v", got, want)
	}
	if p.Form().Open() {
		t.Error("form left open after replay")
	}
}

func TestApplyRejectedAndCancelled(t *testing.T) {
	p, s := newPlanner(t)
	input := strings.Join([]string{
		`{"op":"add","task":{"title":"  ","category":"Chores","dueDate":"2024-06-01"}}`,
		`{"op":"delete","id":"t1","confirm":false}`,
		`{"op":"filter","mode":"Overdue"}`,
		`{"op":"filter","mode":"completed"}`,
	}, "\n")

	events, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	outcomes, err := Apply(context.Background(), p, events)
	if err != nil {
		t.Fatal(err)
	}

	rejected := outcomes[0]
	if rejected.Status != StatusRejected {
		t.Fatalf("add: got %s, want rejected", rejected.Status)
	}
	want := []task.Code{task.CodeTitleRequired, task.CodeCategoryRequired, task.CodeDueDateInPast}
	if fmt.Sprint(rejected.Codes) != fmt.Sprint(want) {
		t.Errorf("codes: got %v, want %v", rejected.Codes, want)
	}
	if !strings.Contains(rejected.String(), "rejected [TITLE_REQUIRED, CATEGORY_REQUIRED, DUE_DATE_IN_PAST]") {
		t.Errorf("String(): got %q", rejected.String())
	}

	if outcomes[1].Status != StatusOK || s.Len() != 2 {
		t.Errorf("cancelled delete: status %s, store size %d", outcomes[1].Status, s.Len())
	}
	if _, ok := p.PendingDelete(); ok {
		t.Error("cancelled delete left a pending token")
	}

	if outcomes[2].Status != StatusFailed || !errors.Is(outcomes[2].Err, view.ErrInvalidFilter) {
		t.Errorf("bad filter: got %s %v", outcomes[2].Status, outcomes[2].Err)
	}
	if outcomes[3].Status != StatusOK || p.Filter() != view.FilterCompleted {
		t.Errorf("filter: got %s, mode %s", outcomes[3].Status, p.Filter())
	}

	counts := Counts(outcomes)
	if counts[StatusOK] != 2 || counts[StatusRejected] != 1 || counts[StatusFailed] != 1 {
		t.Errorf("counts: got %v", counts)
	}
}

func TestApplyEditInherits(t *testing.T) {
	p, s := newPlanner(t)
	events, err := Parse(strings.NewReader(`{"op":"edit","id":"t2","task":{"title":"Gym","category":"Personal","dueDate":"2024-07-09"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(context.Background(), p, events); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get("t2")
	if !got.IsCompleted || got.DueDate != "2024-07-09" {
		t.Errorf("got %+v", got)
	}
}

func TestApplyCancelled(t *testing.T) {
	p, s := newPlanner(t)
	events, err := Parse(strings.NewReader(`{"op":"delete","id":"t1"}`))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, err := Apply(ctx, p, events)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if len(outcomes) != 0 || s.Len() != 2 {
		t.Errorf("applied %d events, store size %d", len(outcomes), s.Len())
	}
}
