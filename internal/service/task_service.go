package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/phrazzld/aiplanner/internal/store"
)

// CreateTaskInput carries the fields of a manually entered task.
type CreateTaskInput struct {
	Name           string
	Description    string
	DueDate        time.Time
	Priority       int // 0 means domain.PriorityMedium
	RecurFrequency int
}

// TaskService manages manually entered tasks.
type TaskService struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask validates and stores a manual task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, in CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	priority := in.Priority
	if priority == 0 {
		priority = domain.PriorityMedium
	}

	task, err := domain.NewTask(userID, in.Name, in.Description, in.DueDate, priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	task.RecurFrequency = in.RecurFrequency
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_task", "failed to store task", err)
	}

	log.Info("task created",
		slog.String("user_id", userID.String()),
		slog.Int64("task_id", task.ID))
	return task, nil
}

// ListTasks returns the user's tasks, optionally including deleted ones.
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListTasksForUser(ctx, userID, includeDeleted)
	if err != nil {
		return nil, NewServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// DeleteTask soft-deletes a task owned by userID.
func (s *TaskService) DeleteTask(ctx context.Context, userID uuid.UUID, taskID int64) error {
	if err := s.tasks.SoftDelete(ctx, userID, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return NewServiceError("delete_task", "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("task_id", taskID))
	return nil
}
