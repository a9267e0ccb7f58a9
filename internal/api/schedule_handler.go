package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/api/shared"
	"github.com/phrazzld/aiplanner/internal/service"
)

// ScheduleService is the scheduling boundary used by ScheduleHandler.
type ScheduleService interface {
	GenerateSchedule(ctx context.Context, userID uuid.UUID) (*service.ScheduleResult, error)
}

// ScheduleHandler runs scheduling for the authenticated user.
type ScheduleHandler struct {
	schedules ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(schedules ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// GenerateSchedule handles POST /api/schedules. An empty batch is a
// successful response with an advisory message.
func (h *ScheduleHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.schedules.GenerateSchedule(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scheduleToResponse(result))
}
