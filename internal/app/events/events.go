package events

import (
	"context"
	"sync"

	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

// EventType identifies a domain event
type EventType string

const (
	CourseSubmitted EventType = "course.submitted"
	CourseApproved  EventType = "course.approved"
	CourseRejected  EventType = "course.rejected"
)

// CourseEvent is published when a course moves through the approval workflow
type CourseEvent struct {
	Type        EventType
	CourseID    int64
	CourseTitle string
	TeacherID   int64
	ActorID     int64
	Reason      string
}

// Handler processes a published event
type Handler func(ctx context.Context, event CourseEvent)

// Bus is a minimal in-process publish/subscribe dispatcher. Handlers run in
// their own goroutines so a slow subscriber (SMTP) never blocks the request
// path.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates an event bus with no subscribers
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish dispatches the event to all subscribers asynchronously. The
// request context may be cancelled once the response is written, so handlers
// get a detached background context.
func (b *Bus) Publish(event CourseEvent) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().Interface("panic", r).Str("event", string(event.Type)).
						Msg("Event handler panicked")
				}
			}()
			h(context.Background(), event)
		}()
	}
}
