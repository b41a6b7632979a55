// Package store holds the ordered, in-memory collection of planner tasks.
//
// The store is owned by a single event loop and performs no locking. It
// trusts its caller: payloads passed to Create and Update must already have
// passed task validation.
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/huaducdat/daily-task-planner/internal/task"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("task not found")

// NotFoundError reports an id with no matching task.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator used by Create.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store is the ordered task collection. Index 0 is displayed first.
type Store struct {
	tasks []task.Task
	newID func() string
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		tasks: []task.Task{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeeded returns a store holding the sample tasks.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	s.tasks = append(s.tasks, SeedTasks()...)
	return s
}

// SeedTasks returns the two sample tasks a fresh planner starts with.
func SeedTasks() []task.Task {
	return []task.Task{
		{
			ID:          "t1",
			Title:       "Finish App",
			Category:    task.CategoryWork,
			DueDate:     "2024-07-01",
			IsCompleted: false,
		},
		{
			ID:          "t2",
			Title:       "Gym",
			Category:    task.CategoryPersonal,
			DueDate:     "2024-07-02",
			IsCompleted: true,
		},
	}
}

// Create stores v under a fresh id at the front of the list.
func (s *Store) Create(v task.Validated) task.Task {
	t := task.Task{
		ID:          s.freshID(),
		Title:       v.Title,
		Category:    v.Category,
		DueDate:     v.DueDate,
		IsCompleted: v.IsCompleted,
	}
	s.tasks = append([]task.Task{t}, s.tasks...)
	return t
}

// Update replaces the task with id in place, keeping its id and position.
func (s *Store) Update(id string, v task.Validated) (task.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, &NotFoundError{ID: id}
	}
	s.tasks[i] = task.Task{
		ID:          id,
		Title:       v.Title,
		Category:    v.Category,
		DueDate:     v.DueDate,
		IsCompleted: v.IsCompleted,
	}
	return s.tasks[i], nil
}

// Delete removes the task with id.
func (s *Store) Delete(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return nil
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (task.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i], nil
}

// List returns a copy of all tasks in display order.
func (s *Store) List() []task.Task {
	tasks := make([]task.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// freshID draws ids until one is unused. A generator that keeps repeating
// itself gets a numeric suffix.
func (s *Store) freshID() string {
	const attempts = 8
	var id string
	for i := 0; i < attempts; i++ {
		id = s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
	if id == "" {
		id = "task"
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if s.indexOf(candidate) < 0 {
			return candidate
		}
	}
}
