package reagent

import "time"

// EventType identifies the kind of a streamed event.
type EventType string

const (
	EventConnected     EventType = "connected"
	EventThinking      EventType = "thinking"
	EventReasoningStep EventType = "reasoning-step"
	EventToolCall      EventType = "tool-call"
	EventToolResult    EventType = "tool-result"
	EventComplete      EventType = "complete"
	EventError         EventType = "error"
)

// Event is a streamed progress notification from an executing research run.
// Concrete types: ConnectedEvent, ThinkingEvent, ReasoningStepEvent,
// ToolCallEvent, ToolResultEvent, CompleteEvent, ErrorEvent.
type Event interface {
	// Kind returns the event's type tag.
	Kind() EventType

	streamEvent()
}

// BaseEvent carries the fields shared by every event.
type BaseEvent struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
}

func (e BaseEvent) Kind() EventType { return e.Type }
func (e BaseEvent) streamEvent()    {}

// ConnectedEvent is sent once when a streaming transport attaches, before
// any engine events.
type ConnectedEvent struct {
	BaseEvent
}

// ThinkingEvent is sent at the start of each iteration, before the LLM call.
type ThinkingEvent struct {
	BaseEvent
	Iteration int `json:"iteration"`
}

// ReasoningStepEvent is sent after each LLM response is parsed.
type ReasoningStepEvent struct {
	BaseEvent
	Step ReasoningStep `json:"step"`
}

// ToolCallEvent is sent before a tool executes.
type ToolCallEvent struct {
	BaseEvent
	Tool      string         `json:"tool"`
	Input     map[string]any `json:"input"`
	Iteration int            `json:"iteration"`
}

// ToolResultEvent is sent after a tool executes, whether it succeeded or not.
type ToolResultEvent struct {
	BaseEvent
	Tool       string `json:"tool"`
	Summary    string `json:"summary"`
	Success    bool   `json:"success"`
	DurationMs int64  `json:"durationMs"`
}

// CompleteEvent is the final event of a successful run.
type CompleteEvent struct {
	BaseEvent
	Response *ResearchResponse `json:"response"`
}

// ErrorEvent is the final event of a failed run.
type ErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
	Code    string `json:"code"`
}

// EventSink receives events from a streaming execution. Implementations must
// tolerate being called from the engine's goroutine; slow sinks slow the run.
type EventSink interface {
	Send(ev Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ev Event)

func (f EventSinkFunc) Send(ev Event) { f(ev) }

// NopSink discards every event.
var NopSink EventSink = EventSinkFunc(func(Event) {})

// NewBaseEvent stamps a BaseEvent with the current time. Transports use it
// to emit their own events (e.g. connected) alongside the engine's.
func NewBaseEvent(t EventType, sessionID string) BaseEvent {
	return BaseEvent{Type: t, Timestamp: time.Now(), SessionID: sessionID}
}
