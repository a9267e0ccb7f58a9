package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/phrazzld/aiplanner/internal/store"
)

// importDedupConstraint is the partial unique index guarding imported tasks.
const importDedupConstraint = "idx_tasks_import_dedup"

const taskColumns = `
	id, user_id, name, description, due_date, priority, is_deleted, recur_frequency, source,
	assigned_block_date,
	assigned_block_start_time::text,
	EXTRACT(EPOCH FROM assigned_block_duration)::bigint,
	created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// CreateTask implements store.TaskStore.CreateTask.
func (s *PostgresTaskStore) CreateTask(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var blockDate, blockStart sql.NullString
	var blockSeconds sql.NullFloat64
	if a := task.Assignment; a != nil {
		blockDate = sql.NullString{String: a.Date.Format(domain.DateLayout), Valid: true}
		blockStart = sql.NullString{String: a.StartTime.String(), Valid: true}
		blockSeconds = sql.NullFloat64{Float64: a.Duration.Seconds(), Valid: true}
	}

	query := `
		INSERT INTO tasks (
			user_id, name, description, due_date, priority, is_deleted, recur_frequency, source,
			assigned_block_date, assigned_block_start_time, assigned_block_duration,
			created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4::date, $5, $6, $7, $8,
			$9::date, $10::time, $11::float8 * INTERVAL '1 second',
			$12, $13
		)
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		task.UserID,
		task.Name,
		task.Description,
		task.DueDate.Format(domain.DateLayout),
		task.Priority,
		task.IsDeleted,
		task.RecurFrequency,
		task.Source,
		blockDate,
		blockStart,
		blockSeconds,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&id)
	if err != nil {
		mapped := mapConstraint(err, map[string]error{importDedupConstraint: store.ErrImportedTaskExists})
		if errors.Is(mapped, store.ErrImportedTaskExists) {
			log.Debug("imported task already exists",
				slog.String("user_id", task.UserID.String()),
				slog.String("name", task.Name))
		} else {
			log.Error("failed to insert task",
				slog.String("error", err.Error()),
				slog.String("user_id", task.UserID.String()))
		}
		return mapped
	}

	task.ID = id
	log.Debug("task created successfully",
		slog.Int64("task_id", id),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetTaskByID implements store.TaskStore.GetTaskByID.
func (s *PostgresTaskStore) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return task, nil
}

// UpdateTaskAssignment implements store.TaskStore.UpdateTaskAssignment.
// All three block columns are written by the same statement.
func (s *PostgresTaskStore) UpdateTaskAssignment(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	assignment domain.Assignment,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := assignment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET assigned_block_date = $1::date,
			assigned_block_start_time = $2::time,
			assigned_block_duration = $3::float8 * INTERVAL '1 second',
			updated_at = $4
		WHERE id = $5 AND user_id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.TruncateToDay(assignment.Date).Format(domain.DateLayout),
		assignment.StartTime.String(),
		assignment.Duration.Seconds(),
		time.Now().UTC(),
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to update task assignment",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return fmt.Errorf("%w: %v", store.ErrUpdateFailed, MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("no task owned by user to assign",
				slog.Int64("task_id", id),
				slog.String("user_id", userID.String()))
		}
		return err
	}

	return nil
}

// ListTasksForUser implements store.TaskStore.ListTasksForUser.
func (s *PostgresTaskStore) ListTasksForUser(
	ctx context.Context,
	userID uuid.UUID,
	includeDeleted bool,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND ($2 OR is_deleted = FALSE)
		ORDER BY due_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, includeDeleted)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return tasks, nil
}

// FindByDedupKey implements store.TaskStore.FindByDedupKey.
// Deleted tasks still match so a removed import is not brought back.
func (s *PostgresTaskStore) FindByDedupKey(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	dueDate time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND name = $2 AND due_date = $3::date
		ORDER BY id ASC
		LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, userID, name, domain.TruncateToDay(dueDate).Format(domain.DateLayout))
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to look up task by dedup key",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *PostgresTaskStore) SoftDelete(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND user_id = $3 AND is_deleted = FALSE`,
		time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to soft delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrTaskNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task         domain.Task
		blockDate    sql.NullTime
		blockStart   sql.NullString
		blockSeconds sql.NullInt64
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Name,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.IsDeleted,
		&task.RecurFrequency,
		&task.Source,
		&blockDate,
		&blockStart,
		&blockSeconds,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.DueDate = domain.TruncateToDay(task.DueDate)

	// The table CHECK keeps the three columns in step
	if blockDate.Valid && blockStart.Valid && blockSeconds.Valid {
		start, err := domain.ParseClockTime(blockStart.String)
		if err != nil {
			return nil, fmt.Errorf("stored block start time: %w", err)
		}
		task.Assignment = &domain.Assignment{
			Date:      domain.TruncateToDay(blockDate.Time),
			StartTime: start,
			Duration:  time.Duration(blockSeconds.Int64) * time.Second,
		}
	}

	return &task, nil
}
