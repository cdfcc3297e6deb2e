// Package events provides in-process pub/sub so the UI layer can react to
// schedule changes (refresh calendars, clear selection) without the store or
// editor knowing about it.
package events

import (
	"sync"
	"time"
)

// Event types emitted by the schedule core.
const (
	TypeScheduleSaved   = "schedule.saved"
	TypeScheduleDeleted = "schedule.deleted"
	TypeWindowRefreshed = "window.refreshed"
)

// Event is a lightweight schedule-domain event.
type Event struct {
	Type       string
	EmployeeID int64
	Date       time.Time
	OccurredAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus provides in-process pub/sub for schedule events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
// Handlers run synchronously; the caller decides the concurrency model.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	for _, handler := range handlers {
		handler(event)
	}
}
