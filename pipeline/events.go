package pipeline

import (
	"sync"
	"time"
)

// EventType identifies an observable call event.
type EventType string

const (
	EventCallOpened        EventType = "call_opened"
	EventGenerateCompleted EventType = "generate_completed"
	EventGenerateFailed    EventType = "generate_failed"
	EventCallClosed        EventType = "call_closed"
)

// Event is one observable step of a call, with typed data.
type Event struct {
	Type      EventType      `json:"type"`
	CallID    string         `json:"call_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// EventEmitter fans call events out to registered listeners. Listeners run
// synchronously on the emitting goroutine, in registration order.
type EventEmitter struct {
	mu        sync.RWMutex
	listeners []func(Event)
}

// NewEventEmitter returns an emitter with no listeners.
func NewEventEmitter() *EventEmitter {
	return &EventEmitter{}
}

// On adds a listener. Listeners cannot be removed.
func (e *EventEmitter) On(listener func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener)
}

// Emit dispatches event to every listener. The listener slice is snapshotted
// first, so a listener registering another listener does not deadlock.
func (e *EventEmitter) Emit(event Event) {
	e.mu.RLock()
	listeners := make([]func(Event), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *EventEmitter) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

// CallOpenedEvent creates a call_opened event.
func CallOpenedEvent(callID, component string) Event {
	return Event{
		Type:      EventCallOpened,
		CallID:    callID,
		Timestamp: time.Now(),
		Data: map[string]any{
			"component": component,
		},
	}
}

// GenerateCompletedEvent creates a generate_completed event.
func GenerateCompletedEvent(callID, component, model string, duration time.Duration, textLen int) Event {
	return Event{
		Type:      EventGenerateCompleted,
		CallID:    callID,
		Timestamp: time.Now(),
		Data: map[string]any{
			"component":   component,
			"model":       model,
			"duration_ms": duration.Milliseconds(),
			"text_len":    textLen,
		},
	}
}

// GenerateFailedEvent creates a generate_failed event.
func GenerateFailedEvent(callID, component, errMsg string, duration time.Duration) Event {
	return Event{
		Type:      EventGenerateFailed,
		CallID:    callID,
		Timestamp: time.Now(),
		Data: map[string]any{
			"component":   component,
			"error":       errMsg,
			"duration_ms": duration.Milliseconds(),
		},
	}
}

// CallClosedEvent creates a call_closed event.
func CallClosedEvent(callID, component string) Event {
	return Event{
		Type:      EventCallClosed,
		CallID:    callID,
		Timestamp: time.Now(),
		Data: map[string]any{
			"component": component,
		},
	}
}
