package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/api/shared"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/service"
)

// TaskService is the task boundary used by TaskHandler.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, in service.CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*domain.Task, error)
	DeleteTask(ctx context.Context, userID uuid.UUID, taskID int64) error
}

// TaskHandler serves the authenticated user's tasks.
type TaskHandler struct {
	tasks TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks handles GET /api/tasks. ?include_deleted=true adds deleted tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	includeDeleted, _ := strconv.ParseBool(r.URL.Query().Get("include_deleted"))
	tasks, err := h.tasks.ListTasks(r.Context(), userID, includeDeleted)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	due, err := time.Parse(domain.DateLayout, req.DueDate)
	if err != nil {
		HandleAPIError(w, r, domain.ErrInvalidFormat, "Invalid due_date: expected YYYY-MM-DD")
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, service.CreateTaskInput{
		Name:           req.Name,
		Description:    req.Description,
		DueDate:        due,
		Priority:       req.Priority,
		RecurFrequency: req.RecurFrequency,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid task ID")
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
