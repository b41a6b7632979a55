package view

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/huaducdat/daily-task-planner/internal/task"
)

func sample() []task.Task {
	return []task.Task{
		{ID: "a", Title: "A", Category: task.CategoryWork, DueDate: "2024-07-01", IsCompleted: false},
		{ID: "b", Title: "B", Category: task.CategoryPersonal, DueDate: "2024-07-02", IsCompleted: true},
		{ID: "c", Title: "C", Category: task.CategoryStudy, DueDate: "2024-07-03", IsCompleted: false},
		{ID: "d", Title: "D", Category: task.CategoryWork, DueDate: "2024-07-04", IsCompleted: true},
	}
}

func TestFilterByStatus(t *testing.T) {
	tasks := sample()

	tests := []struct {
		mode FilterMode
		want []string
	}{
		{FilterAll, []string{"a", "b", "c", "d"}},
		{FilterCompleted, []string{"b", "d"}},
		{FilterIncomplete, []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got, err := FilterByStatus(tasks, tt.mode)
			if err != nil {
				t.Fatalf("FilterByStatus() error = %v", err)
			}
			var gotIDs []string
			for _, tk := range got {
				gotIDs = append(gotIDs, tk.ID)
			}
			if !reflect.DeepEqual(gotIDs, tt.want) {
				t.Errorf("got %v, want %v", gotIDs, tt.want)
			}
		})
	}
}

func TestFilterAllIsIdentity(t *testing.T) {
	tasks := sample()
	got, err := FilterByStatus(tasks, FilterAll)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("All: got %+v, want %+v", got, tasks)
	}
}

func TestFilterPartitions(t *testing.T) {
	// Build every completion pattern over four tasks.
	for mask := 0; mask < 16; mask++ {
		tasks := sample()
		for i := range tasks {
			tasks[i].IsCompleted = mask&(1<<i) != 0
		}

		completed, _ := FilterByStatus(tasks, FilterCompleted)
		incomplete, _ := FilterByStatus(tasks, FilterIncomplete)

		seen := map[string]int{}
		for _, tk := range completed {
			seen[tk.ID]++
		}
		for _, tk := range incomplete {
			seen[tk.ID]++
		}
		if len(seen) != len(tasks) {
			t.Errorf("mask %04b: union has %d ids, want %d", mask, len(seen), len(tasks))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("mask %04b: id %s appears %d times", mask, id, n)
			}
		}
	}
}

func TestFilterByStatusInvalid(t *testing.T) {
	_, err := FilterByStatus(sample(), FilterMode("Overdue"))
	if !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("got %v, want ErrInvalidFilter", err)
	}
}

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{"All", FilterAll, false},
		{"completed", FilterCompleted, false},
		{" INCOMPLETE ", FilterIncomplete, false},
		{"", "", true},
		{"done", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFilterMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilterMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFilterMode(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterModeNext(t *testing.T) {
	m := FilterAll
	var seen []FilterMode
	for i := 0; i < 4; i++ {
		seen = append(seen, m)
		m = m.Next()
	}
	want := []FilterMode{FilterAll, FilterCompleted, FilterIncomplete, FilterAll}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("cycle: got %v, want %v", seen, want)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		tasks []task.Task
		want  Summary
	}{
		{"empty", nil, Summary{}},
		{"sample", sample(), Summary{Total: 4, Completed: 2, Incomplete: 2}},
		{"all done", []task.Task{{ID: "x", IsCompleted: true}}, Summary{Total: 1, Completed: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.tasks)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.Completed+got.Incomplete != got.Total {
				t.Errorf("completed + incomplete != total: %+v", got)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < 12; i++ {
		tasks = append(tasks, task.Task{ID: fmt.Sprintf("t%d", i)})
	}

	tests := []struct {
		name       string
		number     int
		size       int
		wantNumber int
		wantLen    int
		wantFirst  string
	}{
		{"first page", 0, 5, 0, 5, "t0"},
		{"last partial page", 2, 5, 2, 2, "t10"},
		{"clamped past end", 9, 5, 2, 2, "t10"},
		{"clamped below zero", -1, 5, 0, 5, "t0"},
		{"default size", 1, 0, 1, 5, "t5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(tasks, tt.number, tt.size)
			if page.Number != tt.wantNumber {
				t.Errorf("Number: got %d, want %d", page.Number, tt.wantNumber)
			}
			if page.Count != 3 {
				t.Errorf("Count: got %d, want 3", page.Count)
			}
			if len(page.Tasks) != tt.wantLen {
				t.Fatalf("len: got %d, want %d", len(page.Tasks), tt.wantLen)
			}
			if page.Tasks[0].ID != tt.wantFirst {
				t.Errorf("first: got %s, want %s", page.Tasks[0].ID, tt.wantFirst)
			}
		})
	}

	empty := Paginate(nil, 3, 5)
	if empty.Count != 1 || empty.Number != 0 || len(empty.Tasks) != 0 {
		t.Errorf("empty: got %+v", empty)
	}
}
