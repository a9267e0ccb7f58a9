package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/aiplanner/internal/events"
)

// EventRecorder is an events.EventHandler that keeps every event it receives.
type EventRecorder struct {
	mu     sync.Mutex
	events []*events.Event
}

// HandleEvent implements events.EventHandler.
func (r *EventRecorder) HandleEvent(ctx context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events of the given type.
func (r *EventRecorder) Events(eventType string) []*events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*events.Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
