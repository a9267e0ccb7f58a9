package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username     string `json:"username"       validate:"required,max=255"`
	Password     string `json:"password"       validate:"required,min=12,max=72"`
	CanvasHashID int64  `json:"canvas_hash_id" validate:"required,gt=0"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	// Token is the JWT used for API authorization; empty after registration.
	Token string `json:"token,omitempty"`
}

// CreateTaskRequest defines the payload for creating a manual task.
type CreateTaskRequest struct {
	Name           string `json:"name"            validate:"required,max=500"`
	Description    string `json:"description"     validate:"max=2000"`
	DueDate        string `json:"due_date"        validate:"required,datetime=2006-01-02"`
	Priority       int    `json:"priority"        validate:"omitempty,min=1,max=3"`
	RecurFrequency int    `json:"recur_frequency" validate:"min=0"`
}

// ImportCanvasRequest defines the payload for a Canvas import.
type ImportCanvasRequest struct {
	Token string `json:"token" validate:"required"`
}

// AssignmentResponse is the block a task is placed on.
type AssignmentResponse struct {
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	DurationHours int    `json:"duration_hours"`
}

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	DueDate        string              `json:"due_date"`
	Priority       int                 `json:"priority"`
	IsDeleted      bool                `json:"is_deleted"`
	RecurFrequency int                 `json:"recur_frequency"`
	Source         string              `json:"source"`
	Assignment     *AssignmentResponse `json:"assignment,omitempty"`
}

// ProposalResponse is one proposed block from a scheduling run.
type ProposalResponse struct {
	TaskID        int64  `json:"task_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	DurationHours int    `json:"duration_hours"`
}

// ScheduleResponse is the outcome of a scheduling run.
type ScheduleResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	Rendered  string             `json:"rendered,omitempty"`
	Assigned  int                `json:"assigned"`
	NotFound  int                `json:"not_found"`
	Failed    int                `json:"failed"`
	Dropped   int                `json:"dropped"`
	Tasks     []TaskResponse     `json:"tasks"`
	Messages  []string           `json:"messages"`
	Empty     bool               `json:"empty"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		DueDate:        t.DueDate.Format(domain.DateLayout),
		Priority:       t.Priority,
		IsDeleted:      t.IsDeleted,
		RecurFrequency: t.RecurFrequency,
		Source:         t.Source,
	}
	if a := t.Assignment; a != nil {
		resp.Assignment = &AssignmentResponse{
			Date:          a.Date.Format(domain.DateLayout),
			StartTime:     a.StartTime.HHMM(),
			DurationHours: int(a.Duration / time.Hour),
		}
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func scheduleToResponse(res *service.ScheduleResult) ScheduleResponse {
	proposals := make([]ProposalResponse, 0, len(res.Proposals))
	for _, p := range res.Proposals {
		proposals = append(proposals, ProposalResponse{
			TaskID:        p.TaskID,
			Date:          p.Date.Format(domain.DateLayout),
			StartTime:     p.StartTime.HHMM(),
			DurationHours: int(p.Duration / time.Hour),
		})
	}
	return ScheduleResponse{
		Proposals: proposals,
		Rendered:  res.Rendered,
		Assigned:  res.Assigned,
		NotFound:  res.NotFound,
		Failed:    res.Failed,
		Dropped:   len(res.Dropped),
		Tasks:     tasksToResponse(res.Tasks),
		Messages:  res.Messages,
		Empty:     res.Empty,
	}
}
