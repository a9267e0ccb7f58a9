package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// It is the only writer of durable task state; every write touches a single record.
type TaskStore interface {
	// CreateTask validates and saves a new task, setting task.ID to the
	// identifier allocated by the store.
	// Returns ErrImportedTaskExists if an imported task with the same
	// owner, name and due day already exists.
	CreateTask(ctx context.Context, task *domain.Task) error

	// GetTaskByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetTaskByID(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTaskAssignment sets the date, start time and duration of the
	// task's block in one atomic write. The task must belong to userID.
	// Returns ErrTaskNotFound if no such task is owned by the user.
	UpdateTaskAssignment(ctx context.Context, userID uuid.UUID, id int64, assignment domain.Assignment) error

	// ListTasksForUser returns the user's tasks ordered by due date then ID.
	// Soft-deleted tasks are only included when includeDeleted is true.
	ListTasksForUser(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*domain.Task, error)

	// FindByDedupKey looks up a task by owner, name and due day.
	// Returns ErrTaskNotFound if there is none.
	FindByDedupKey(ctx context.Context, userID uuid.UUID, name string, dueDate time.Time) (*domain.Task, error)

	// SoftDelete flags a task owned by userID as deleted.
	// Returns ErrTaskNotFound if no such task is owned by the user.
	SoftDelete(ctx context.Context, userID uuid.UUID, id int64) error
}
