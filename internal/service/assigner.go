package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/events"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/phrazzld/aiplanner/internal/store"
)

// AssignSummary counts the outcomes of a batch of proposals.
type AssignSummary struct {
	Assigned int `json:"assigned"`
	NotFound int `json:"not_found"`
	Failed   int `json:"failed"`

	// Blocks lists the successfully written assignments in proposal order.
	Blocks []events.AssignedBlock `json:"blocks,omitempty"`
	// Tasks is the owner's refreshed task view after the batch.
	Tasks []*domain.Task `json:"-"`
}

// BlockAssigner writes validated proposals onto the tasks they reference.
type BlockAssigner struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewBlockAssigner creates a BlockAssigner. emitter may be nil.
func NewBlockAssigner(tasks store.TaskStore, emitter events.EventEmitter, logger *slog.Logger) *BlockAssigner {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlockAssigner{
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "block_assigner")),
	}
}

// Apply sets the block of the proposal's task. A task that does not exist or
// belongs to another user yields ErrTaskNotFound. The three block fields are
// written in one update.
func (a *BlockAssigner) Apply(ctx context.Context, ownerID uuid.UUID, proposal domain.ScheduleProposal) error {
	_, err := a.apply(ctx, ownerID, proposal)
	return err
}

func (a *BlockAssigner) apply(ctx context.Context, ownerID uuid.UUID, proposal domain.ScheduleProposal) (*domain.Task, error) {
	task, err := a.tasks.GetTaskByID(ctx, proposal.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, NewServiceError("assign", "failed to load task", err)
	}
	if task.UserID != ownerID {
		return nil, ErrTaskNotFound
	}
	if !domain.IsSchedulable(*task) {
		return nil, NewServiceError("assign", fmt.Sprintf("task %d is not schedulable", task.ID), domain.ErrValidation)
	}

	if err := task.Assign(proposal.Assignment()); err != nil {
		return nil, NewServiceError("assign", "invalid block", err)
	}

	if err := a.tasks.UpdateTaskAssignment(ctx, ownerID, task.ID, *task.Assignment); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, NewServiceError("assign", "failed to store block", err)
	}

	return task, nil
}

// ApplyBatch applies each proposal independently, then refreshes the owner's
// task view and emits a schedule.assigned event. A failure on one proposal
// never prevents the others from being applied.
func (a *BlockAssigner) ApplyBatch(
	ctx context.Context,
	ownerID uuid.UUID,
	proposals []domain.ScheduleProposal,
) AssignSummary {
	log := logger.FromContextOrDefault(ctx, a.logger).With(slog.String("user_id", ownerID.String()))

	var summary AssignSummary
	for _, p := range proposals {
		task, err := a.apply(ctx, ownerID, p)
		switch {
		case err == nil:
			summary.Assigned++
			summary.Blocks = append(summary.Blocks, events.AssignedBlock{
				TaskID:      task.ID,
				Name:        task.Name,
				Description: task.Description,
				Assignment:  *task.Assignment,
			})
		case errors.Is(err, ErrTaskNotFound):
			summary.NotFound++
			log.Warn("proposal references an unknown task", slog.Int64("task_id", p.TaskID))
		default:
			summary.Failed++
			log.Error("failed to apply proposal",
				slog.Int64("task_id", p.TaskID),
				slog.String("error", err.Error()))
		}
	}

	tasks, err := a.tasks.ListTasksForUser(ctx, ownerID, false)
	if err != nil {
		log.Error("failed to refresh task view", slog.String("error", err.Error()))
	}
	summary.Tasks = tasks

	a.emit(ctx, log, ownerID, summary)

	log.Info("applied schedule proposals",
		slog.Int("proposals", len(proposals)),
		slog.Int("assigned", summary.Assigned),
		slog.Int("not_found", summary.NotFound),
		slog.Int("failed", summary.Failed))

	return summary
}

func (a *BlockAssigner) emit(ctx context.Context, log *slog.Logger, ownerID uuid.UUID, summary AssignSummary) {
	if a.emitter == nil {
		return
	}
	event, err := events.NewEvent(events.TypeScheduleAssigned, ownerID, events.ScheduleAssignedPayload{
		Blocks:    summary.Blocks,
		TaskCount: len(summary.Tasks),
	})
	if err == nil {
		err = a.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Error("failed to emit schedule event", slog.String("error", err.Error()))
	}
}
