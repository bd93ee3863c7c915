package session

import (
	"sync"
	"time"
)

// EventType represents the type of session event.
type EventType string

const (
	EventMessageSent      EventType = "message_sent"
	EventReplyReceived    EventType = "reply_received"
	EventCrisisDetected   EventType = "crisis_detected"
	EventAnalysisStart    EventType = "analysis_start"
	EventAnalysisComplete EventType = "analysis_complete"
	EventJournalSaved     EventType = "journal_saved"
	EventVibeSaved        EventType = "vibe_saved"
	EventSessionError     EventType = "session_error"
)

// Event represents a session lifecycle event with associated data.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      map[string]interface{}
}

// EventHandler is a function that handles events.
type EventHandler func(Event)

// EventBus decouples the chat session from whatever is rendering it: the
// TUI subscribes for spinner and transcript updates without the session
// knowing about terminals.
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]EventHandler
	allHandlers []EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type.
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types.
func (eb *EventBus) SubscribeAll(handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.allHandlers = append(eb.allHandlers, handler)
}

// Publish sends an event to all registered handlers.
func (eb *EventBus) Publish(eventType EventType, data map[string]interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	for _, handler := range eb.handlers[event.Type] {
		handler(event)
	}
	for _, handler := range eb.allHandlers {
		handler(event)
	}
}
