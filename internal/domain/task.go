package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority ordinals. Lower values are scheduled first.
const (
	PriorityHighest = 1
	PriorityMedium  = 2
	PriorityLowest  = 3
)

// DateLayout is the calendar-day layout used for due dates and block dates.
const DateLayout = "2006-01-02"

// Task sources.
const (
	TaskSourceManual = "manual"
	TaskSourceCanvas = "canvas"
)

// Common validation errors for Task
var (
	ErrEmptyTaskUserID    = errors.New("task user ID cannot be empty")
	ErrEmptyTaskName      = errors.New("task name cannot be empty")
	ErrTaskNameTooLong    = errors.New("task name must be at most 500 characters long")
	ErrEmptyDueDate       = errors.New("task due date cannot be empty")
	ErrInvalidPriority    = errors.New("task priority must be between 1 and 3")
	ErrNegativeRecurrence = errors.New("task recurrence frequency cannot be negative")
	ErrInvalidAssignment  = errors.New("invalid block assignment")
	ErrInvalidTaskSource  = errors.New("invalid task source")
)

// Assignment is the calendar block a task has been placed on. A task either
// has all three fields or none of them, which is why it only ever appears
// behind a pointer on Task.
type Assignment struct {
	Date      time.Time     `json:"date"`
	StartTime ClockTime     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// Validate checks that every field of the block is set.
func (a Assignment) Validate() error {
	if a.Date.IsZero() {
		return fmt.Errorf("%w: date is not set", ErrInvalidAssignment)
	}
	if !a.StartTime.Valid() {
		return fmt.Errorf("%w: start time %q is out of range", ErrInvalidAssignment, a.StartTime)
	}
	if a.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidAssignment)
	}
	return nil
}

// Start returns the instant the block begins, in the location of its date.
func (a Assignment) Start() time.Time {
	return a.Date.Add(a.StartTime.Offset())
}

// End returns the instant the block finishes.
func (a Assignment) End() time.Time {
	return a.Start().Add(a.Duration)
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID             int64       `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	DueDate        time.Time   `json:"due_date"`
	Priority       int         `json:"priority"`
	IsDeleted      bool        `json:"is_deleted"`
	RecurFrequency int         `json:"recur_frequency"`
	Source         string      `json:"source"`
	Assignment     *Assignment `json:"assignment,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewTask creates an unscheduled, non-recurring task. The ID is left at zero
// and allocated by the store on insert.
func NewTask(userID uuid.UUID, name, description string, dueDate time.Time, priority int) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		DueDate:     TruncateToDay(dueDate),
		Priority:    priority,
		Source:      TaskSourceManual,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if len(t.Name) > 500 {
		return ErrTaskNameTooLong
	}

	if t.DueDate.IsZero() {
		return ErrEmptyDueDate
	}

	if t.Priority < PriorityHighest || t.Priority > PriorityLowest {
		return ErrInvalidPriority
	}

	if t.RecurFrequency < 0 {
		return ErrNegativeRecurrence
	}

	if t.Source != TaskSourceManual && t.Source != TaskSourceCanvas {
		return ErrInvalidTaskSource
	}

	if t.Assignment != nil {
		return t.Assignment.Validate()
	}

	return nil
}

// Assign places the task on the given block. The block is validated first so
// a task is never left partially assigned.
func (t *Task) Assign(a Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a.Date = TruncateToDay(a.Date)
	t.Assignment = &a
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsScheduled reports whether the task has a block assignment.
func (t *Task) IsScheduled() bool {
	return t.Assignment != nil
}

// IsSchedulable reports whether a task may be sent for scheduling: it must be
// live and non-recurring. Every place that filters tasks for scheduling, display
// of pending work or reconciliation goes through this predicate.
func IsSchedulable(t Task) bool {
	return !t.IsDeleted && t.RecurFrequency == 0
}

// TruncateToDay returns midnight UTC of the calendar day t falls on in UTC.
func TruncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
