package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/events"
	"github.com/phrazzld/aiplanner/internal/platform/canvas"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/phrazzld/aiplanner/internal/store"
	"golang.org/x/sync/errgroup"
)

// Advisory messages returned to the user by an import.
const (
	MsgInvalidToken = "Invalid token. Please try again."
	MsgNoCourses    = "No favorite courses found in Canvas."
)

// CourseClient is the subset of the course-service client used by imports.
type CourseClient interface {
	ListFavoriteCourses(ctx context.Context, token string) ([]canvas.Course, error)
	ListAssignments(ctx context.Context, token string, courseID int64) ([]canvas.ExternalAssignment, error)
}

// ImportService runs a full import for one user: token check, course listing,
// per-course assignment fetches and reconciliation.
type ImportService struct {
	users       store.UserStore
	courses     CourseClient
	reconciler  *ImportReconciler
	emitter     events.EventEmitter
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// NewImportService creates an ImportService. concurrency bounds the number of
// courses fetched at once; values below 1 mean one at a time.
func NewImportService(
	users store.UserStore,
	courses CourseClient,
	reconciler *ImportReconciler,
	emitter events.EventEmitter,
	concurrency int,
	logger *slog.Logger,
) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &ImportService{
		users:       users,
		courses:     courses,
		reconciler:  reconciler,
		emitter:     emitter,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger.With(slog.String("component", "import_service")),
	}
}

// ImportFromCanvas imports the upcoming assignments of the user's favourite
// courses. A rejected token fails before any network call. A course whose
// assignments cannot be fetched is skipped and counted in FailedCourses.
func (s *ImportService) ImportFromCanvas(ctx context.Context, userID uuid.UUID, rawToken string) (ImportSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	token, err := ValidateAccessToken(rawToken)
	if err != nil {
		log.Warn("rejected course-service access token")
		return ImportSummary{Messages: []string{MsgInvalidToken}}, err
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ImportSummary{}, NewServiceError("import", "failed to load user", err)
	}

	courses, err := s.courses.ListFavoriteCourses(ctx, token)
	if err != nil {
		log.Error("failed to list favorite courses", slog.String("error", err.Error()))
		return ImportSummary{}, NewServiceError("import", "failed to list courses", err)
	}
	if len(courses) == 0 {
		return ImportSummary{Messages: []string{MsgNoCourses}}, nil
	}

	perCourse := make([][]canvas.ExternalAssignment, len(courses))
	failed := make([]bool, len(courses))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, course := range courses {
		g.Go(func() error {
			assignments, err := s.courses.ListAssignments(ctx, token, course.ID)
			if err != nil {
				log.Warn("skipping course whose assignments could not be fetched",
					slog.Int64("course_id", course.ID),
					slog.String("error", err.Error()))
				failed[i] = true
				return nil
			}
			perCourse[i] = assignments
			return nil
		})
	}
	_ = g.Wait()

	var candidates []canvas.ExternalAssignment
	failedCourses := 0
	for i := range courses {
		if failed[i] {
			failedCourses++
			continue
		}
		candidates = append(candidates, perCourse[i]...)
	}

	summary, err := s.reconciler.Reconcile(ctx, owner, candidates, s.now().UTC())
	if err != nil {
		return summary, NewServiceError("import", "reconciliation aborted", err)
	}
	summary.Courses = len(courses)
	summary.FailedCourses = failedCourses
	summary.Messages = importMessages(summary)

	if summary.Created > 0 {
		s.emit(ctx, log, userID, summary)
	}

	return summary, nil
}

func (s *ImportService) emit(ctx context.Context, log *slog.Logger, userID uuid.UUID, summary ImportSummary) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewEvent(events.TypeTasksImported, userID, events.TasksImportedPayload{
		Created: summary.Created,
		Skipped: summary.Skipped,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Error("failed to emit import event", slog.String("error", err.Error()))
	}
}

func importMessages(summary ImportSummary) []string {
	msgs := []string{
		fmt.Sprintf("Imported %d new task(s) from %d course(s).", summary.Created, summary.Courses),
	}
	if summary.Skipped > 0 {
		msgs = append(msgs, fmt.Sprintf(
			"Skipped %d assignment(s): %d already imported, %d past due, %d without a valid due date.",
			summary.Skipped, summary.Duplicates, summary.Expired, summary.Invalid))
	}
	if summary.FailedCourses > 0 {
		msgs = append(msgs, fmt.Sprintf("Could not load assignments for %d course(s).", summary.FailedCourses))
	}
	return msgs
}
