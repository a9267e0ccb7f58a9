package gcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/phrazzld/aiplanner/internal/config"
	"github.com/phrazzld/aiplanner/internal/events"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// TaskIDProperty is the private extended property keying events to tasks.
const TaskIDProperty = "planner_task_id"

// Publisher mirrors assigned blocks into one calendar. It implements
// events.EventHandler and reacts only to schedule.assigned events.
type Publisher struct {
	srv        *calendar.Service
	calendarID string
	loc        *time.Location
	logger     *slog.Logger
}

var _ events.EventHandler = (*Publisher)(nil)

// NewPublisher creates a Publisher authenticated with the configured service
// account credentials. Extra client options are appended and win over the
// defaults.
func NewPublisher(
	ctx context.Context,
	cfg config.CalendarConfig,
	logger *slog.Logger,
	opts ...option.ClientOption,
) (*Publisher, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar time zone %q: %w", cfg.TimeZone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := []option.ClientOption{option.WithScopes(calendar.CalendarEventsScope)}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	srv, err := calendar.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %w", err)
	}

	return &Publisher{
		srv:        srv,
		calendarID: cfg.CalendarID,
		loc:        loc,
		logger:     logger.With(slog.String("component", "gcal_publisher")),
	}, nil
}

// HandleEvent upserts one calendar event per assigned block. Every block is
// attempted; the returned error joins the failures.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeScheduleAssigned {
		return nil
	}

	var payload events.ScheduleAssignedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decoding %s payload: %w", event.Type, err)
	}

	log := logger.FromContextOrDefault(ctx, p.logger).With(slog.String("user_id", event.UserID.String()))

	var errs []error
	for _, block := range payload.Blocks {
		if err := p.upsert(ctx, block); err != nil {
			log.Error("failed to publish block",
				slog.Int64("task_id", block.TaskID),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("task %d: %w", block.TaskID, err))
		}
	}

	log.Info("published blocks to calendar",
		slog.Int("blocks", len(payload.Blocks)),
		slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func (p *Publisher) upsert(ctx context.Context, block events.AssignedBlock) error {
	want := ToCalendarEvent(block, p.loc)
	taskID := strconv.FormatInt(block.TaskID, 10)

	existing, err := p.srv.Events.List(p.calendarID).
		PrivateExtendedProperty(TaskIDProperty + "=" + taskID).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("searching for existing event: %w", err)
	}

	if len(existing.Items) > 0 {
		_, err = p.srv.Events.Update(p.calendarID, existing.Items[0].Id, want).Context(ctx).Do()
		return err
	}

	_, err = p.srv.Events.Insert(p.calendarID, want).Context(ctx).Do()
	return err
}

// ToCalendarEvent converts an assigned block into a calendar event. The
// block's date and start time are read as wall-clock time in loc.
func ToCalendarEvent(block events.AssignedBlock, loc *time.Location) *calendar.Event {
	a := block.Assignment
	y, m, d := a.Date.Date()
	start := time.Date(y, m, d, a.StartTime.Hour, a.StartTime.Minute, a.StartTime.Second, 0, loc)
	end := start.Add(a.Duration)

	return &calendar.Event{
		Summary:     block.Name,
		Description: block.Description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: strconv.FormatInt(block.TaskID, 10)},
		},
	}
}
