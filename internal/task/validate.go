package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code identifies a failed validation rule.
type Code string

const (
	CodeTitleRequired    Code = "TITLE_REQUIRED"
	CodeCategoryRequired Code = "CATEGORY_REQUIRED"
	CodeDueDateRequired  Code = "DUE_DATE_REQUIRED"
	CodeDueDateInPast    Code = "DUE_DATE_IN_PAST"
)

// Sentinel errors for use with errors.Is.
var (
	ErrTitleRequired    = &FieldError{Field: "title", Code: CodeTitleRequired, Message: "Title is required."}
	ErrCategoryRequired = &FieldError{Field: "category", Code: CodeCategoryRequired, Message: "Category is required."}
	ErrDueDateRequired  = &FieldError{Field: "dueDate", Code: CodeDueDateRequired, Message: "Due date is required."}
	ErrDueDateInPast    = &FieldError{Field: "dueDate", Code: CodeDueDateInPast, Message: "Due date cannot be in the past."}
)

// FieldError is a single failed rule on one field.
type FieldError struct {
	Field   string
	Code    Code
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// Is matches another FieldError with the same code.
func (e *FieldError) Is(target error) bool {
	var fe *FieldError
	if !errors.As(target, &fe) {
		return false
	}
	return fe.Code == e.Code
}

// ValidationErrors collects every rule a candidate failed.
type ValidationErrors []*FieldError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return "invalid task: " + strings.Join(parts, ", ")
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Has reports whether code is among the failures.
func (errs ValidationErrors) Has(code Code) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the failed codes in rule order.
func (errs ValidationErrors) Codes() []Code {
	codes := make([]Code, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	return codes
}

// ByField groups messages by field name for form display.
func (errs ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Validator checks candidates against the task rules.
type Validator struct {
	clock Clock
}

// NewValidator returns a validator that reads "today" from clock.
// A nil clock uses the local wall clock.
func NewValidator(clock Clock) *Validator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Validator{clock: clock}
}

// Today returns the start of the current day.
func (v *Validator) Today() time.Time {
	return StartOfDay(v.clock.Now())
}

// DateAllowed reports whether date is today or later.
func (v *Validator) DateAllowed(date time.Time) bool {
	return !StartOfDay(date).Before(v.Today())
}

// Validate checks c and returns the normalized payload.
// The returned error is a ValidationErrors when any rule fails.
func (v *Validator) Validate(c Candidate) (Validated, error) {
	var errs ValidationErrors

	title := strings.TrimSpace(c.Title)
	if title == "" {
		errs = append(errs, ErrTitleRequired)
	}

	category := Category(strings.TrimSpace(c.Category))
	if !category.Valid() {
		errs = append(errs, ErrCategoryRequired)
	}

	var dueDate string
	today := v.Today()
	if due, err := ParseDate(c.DueDate, today.Location()); err != nil || strings.TrimSpace(c.DueDate) == "" {
		errs = append(errs, ErrDueDateRequired)
	} else {
		if !v.DateAllowed(due) {
			errs = append(errs, ErrDueDateInPast)
		}
		dueDate = FormatDate(due)
	}

	if len(errs) > 0 {
		return Validated{}, errs
	}

	return Validated{
		Title:       title,
		Category:    category,
		DueDate:     dueDate,
		IsCompleted: c.Completed(),
	}, nil
}
