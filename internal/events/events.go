package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
)

// Event types.
const (
	// TypeTasksImported is emitted after an import created at least one task.
	TypeTasksImported = "tasks.imported"

	// TypeScheduleAssigned is emitted after a scheduling run, carrying the
	// assigned blocks. It doubles as the owner's task view refresh signal.
	TypeScheduleAssigned = "schedule.assigned"
)

// Event is a notification that one user's tasks changed.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// UserID is the owner of the tasks the event is about
	UserID uuid.UUID `json:"user_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// TasksImportedPayload is the payload of TypeTasksImported.
type TasksImportedPayload struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// AssignedBlock is one task placed on a calendar block.
type AssignedBlock struct {
	TaskID      int64             `json:"task_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Assignment  domain.Assignment `json:"assignment"`
}

// ScheduleAssignedPayload is the payload of TypeScheduleAssigned.
type ScheduleAssignedPayload struct {
	Blocks []AssignedBlock `json:"blocks"`
	// TaskCount is the size of the refreshed task view.
	TaskCount int `json:"task_count"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type, owner and payload.
func NewEvent(eventType string, userID uuid.UUID, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
// Handlers ignore event types they are not interested in.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
