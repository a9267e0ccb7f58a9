package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/platform/canvas"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/phrazzld/aiplanner/internal/store"
)

// ImportedTaskDescription is the description given to every imported task.
const ImportedTaskDescription = "Task imported from Canvas"

// ImportSummary reports the outcome of an import. Skipped is the sum of
// Duplicates, Invalid and Expired.
type ImportSummary struct {
	Created       int      `json:"created"`
	Skipped       int      `json:"skipped"`
	Duplicates    int      `json:"duplicates"`
	Invalid       int      `json:"invalid"`
	Expired       int      `json:"expired"`
	Courses       int      `json:"courses"`
	FailedCourses int      `json:"failed_courses"`
	Messages      []string `json:"messages,omitempty"`
}

// ImportReconciler turns external assignments into tasks, skipping those that
// are already stored, already due, or malformed. Running it twice over the
// same input creates nothing the second time.
type ImportReconciler struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewImportReconciler creates a reconciler writing to the given store.
func NewImportReconciler(tasks store.TaskStore, logger *slog.Logger) *ImportReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportReconciler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "import_reconciler")),
	}
}

// Reconcile creates a task for every candidate that is well-formed, due at or
// after now, and not already stored for owner. Failures on one candidate are
// counted and never abort the rest of the batch.
func (r *ImportReconciler) Reconcile(
	ctx context.Context,
	owner *domain.User,
	candidates []canvas.ExternalAssignment,
	now time.Time,
) (ImportSummary, error) {
	var summary ImportSummary
	if owner == nil {
		return summary, NewServiceError("reconcile", "owner is required", domain.ErrValidation)
	}

	log := logger.FromContextOrDefault(ctx, r.logger).With(slog.String("user_id", owner.ID.String()))

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		switch r.reconcileOne(ctx, log, owner, candidate, now) {
		case outcomeCreated:
			summary.Created++
		case outcomeDuplicate:
			summary.Duplicates++
		case outcomeExpired:
			summary.Expired++
		default:
			summary.Invalid++
		}
	}

	summary.Skipped = summary.Duplicates + summary.Invalid + summary.Expired
	log.Info("reconciled imported assignments",
		slog.Int("candidates", len(candidates)),
		slog.Int("created", summary.Created),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("invalid", summary.Invalid),
		slog.Int("expired", summary.Expired))

	return summary, nil
}

type reconcileOutcome int

const (
	outcomeInvalid reconcileOutcome = iota
	outcomeCreated
	outcomeDuplicate
	outcomeExpired
)

func (r *ImportReconciler) reconcileOne(
	ctx context.Context,
	log *slog.Logger,
	owner *domain.User,
	candidate canvas.ExternalAssignment,
	now time.Time,
) reconcileOutcome {
	attrs := []any{
		slog.Int64("assignment_id", candidate.ID),
		slog.Int64("course_id", candidate.CourseID),
	}

	due, err := parseDueAt(candidate.DueAt)
	if err != nil {
		log.Debug("skipping assignment without a usable due date", append(attrs, slog.String("error", err.Error()))...)
		return outcomeInvalid
	}
	if due.Before(now) {
		return outcomeExpired
	}

	name := strings.TrimSpace(candidate.Name)
	existing, err := r.tasks.FindByDedupKey(ctx, owner.ID, name, due)
	switch {
	case err == nil && existing != nil:
		return outcomeDuplicate
	case err != nil && !errors.Is(err, store.ErrTaskNotFound):
		log.Error("dedup lookup failed", append(attrs, slog.String("error", err.Error()))...)
		return outcomeInvalid
	}

	task, err := domain.NewTask(owner.ID, name, ImportedTaskDescription, due, domain.PriorityLowest)
	if err != nil {
		log.Debug("skipping invalid assignment", append(attrs, slog.String("error", err.Error()))...)
		return outcomeInvalid
	}
	task.Source = domain.TaskSourceCanvas

	if err := r.tasks.CreateTask(ctx, task); err != nil {
		if errors.Is(err, store.ErrImportedTaskExists) {
			// lost a race with a concurrent import of the same assignment
			return outcomeDuplicate
		}
		log.Error("failed to store imported task", append(attrs, slog.String("error", err.Error()))...)
		return outcomeInvalid
	}

	log.Debug("imported task", append(attrs, slog.Int64("task_id", task.ID))...)
	return outcomeCreated
}

// parseDueAt parses an ISO-8601 due timestamp as sent by the course service.
func parseDueAt(dueAt *string) (time.Time, error) {
	if dueAt == nil || strings.TrimSpace(*dueAt) == "" {
		return time.Time{}, fmt.Errorf("%w: due_at is missing", domain.ErrInvalidFormat)
	}
	due, err := time.Parse(time.RFC3339, strings.TrimSpace(*dueAt))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due_at %q: %v", domain.ErrInvalidFormat, *dueAt, err)
	}
	return due.UTC(), nil
}
