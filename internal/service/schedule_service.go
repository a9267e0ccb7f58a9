package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/generation"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/phrazzld/aiplanner/internal/store"
)

// Advisory messages returned to the user by a scheduling run.
const (
	MsgNoTasks           = "No tasks available to generate a schedule. Please add some and try again."
	MsgTasksRetrieved    = "Tasks retrieved successfully."
	MsgScheduleGenerated = "Schedule generated successfully."
	MsgNoUsableBlocks    = "The generated schedule did not contain any usable blocks."
)

// ScheduleResult is the outcome of one scheduling run.
type ScheduleResult struct {
	Proposals []domain.ScheduleProposal `json:"proposals"`
	// Rendered is the human-readable listing of Proposals.
	Rendered string                    `json:"rendered"`
	Dropped  []generation.DroppedBlock `json:"-"`
	Assigned int                       `json:"assigned"`
	NotFound int                       `json:"not_found"`
	Failed   int                       `json:"failed"`
	Tasks    []*domain.Task            `json:"tasks"`
	Messages []string                  `json:"messages"`
	// Empty is set when the user had nothing to schedule.
	Empty bool `json:"empty"`
}

// ScheduleService runs the scheduling pipeline for one user: list tasks,
// build the request, call the generation service, parse the reply and apply
// the resulting blocks.
type ScheduleService struct {
	tasks     store.TaskStore
	builder   *generation.RequestBuilder
	generator generation.Generator
	parser    *generation.ResponseParser
	assigner  *BlockAssigner
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewScheduleService creates a ScheduleService. timeout bounds the generation
// call; zero means no bound beyond the caller's context.
func NewScheduleService(
	tasks store.TaskStore,
	builder *generation.RequestBuilder,
	generator generation.Generator,
	parser *generation.ResponseParser,
	assigner *BlockAssigner,
	timeout time.Duration,
	logger *slog.Logger,
) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{
		tasks:     tasks,
		builder:   builder,
		generator: generator,
		parser:    parser,
		assigner:  assigner,
		timeout:   timeout,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "schedule_service")),
	}
}

// GenerateSchedule schedules the user's pending tasks. Having nothing to
// schedule is not an error: the result is marked Empty and carries an
// advisory message. Generation failures are returned as errors.
func (s *ScheduleService) GenerateSchedule(ctx context.Context, userID uuid.UUID) (*ScheduleResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	tasks, err := s.tasks.ListTasksForUser(ctx, userID, false)
	if err != nil {
		return nil, NewServiceError("schedule", "failed to list tasks", err)
	}

	batch := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		batch = append(batch, *t)
	}

	req, err := s.builder.BuildRequest(s.now(), batch)
	if errors.Is(err, generation.ErrEmptyBatch) {
		log.Info("no schedulable tasks")
		return &ScheduleResult{
			Proposals: []domain.ScheduleProposal{},
			Tasks:     tasks,
			Messages:  []string{MsgNoTasks},
			Empty:     true,
		}, nil
	}
	if err != nil {
		return nil, NewServiceError("schedule", "failed to build request", err)
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(genCtx, req)
	if err != nil {
		log.Error("schedule generation failed",
			slog.Int("task_count", len(req.TaskIDs)),
			slog.String("error", err.Error()))
		return nil, NewServiceError("schedule", "generation failed", err)
	}

	parsed := s.parser.Parse(raw)
	summary := s.assigner.ApplyBatch(ctx, userID, parsed.Proposals)

	result := &ScheduleResult{
		Proposals: parsed.Proposals,
		Rendered:  generation.Render(parsed.Proposals),
		Dropped:   parsed.Dropped,
		Assigned:  summary.Assigned,
		NotFound:  summary.NotFound,
		Failed:    summary.Failed,
		Tasks:     summary.Tasks,
		Messages:  []string{MsgTasksRetrieved},
	}
	if result.Tasks == nil {
		result.Tasks = tasks
	}

	if len(parsed.Proposals) == 0 {
		result.Messages = append(result.Messages, MsgNoUsableBlocks)
	} else {
		result.Messages = append(result.Messages, MsgScheduleGenerated)
	}
	if n := len(parsed.Dropped); n > 0 {
		result.Messages = append(result.Messages, fmt.Sprintf("Ignored %d malformed block(s) in the generated schedule.", n))
	}
	if n := summary.NotFound + summary.Failed; n > 0 {
		result.Messages = append(result.Messages, fmt.Sprintf("Could not place %d block(s) on your tasks.", n))
	}

	log.Info("schedule generated",
		slog.Int("task_count", len(req.TaskIDs)),
		slog.Int("proposals", len(parsed.Proposals)),
		slog.Int("dropped", len(parsed.Dropped)),
		slog.Int("assigned", summary.Assigned))

	return result, nil
}
