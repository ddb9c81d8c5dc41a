package reagent

import (
	"strings"
	"time"
)

// Conversation roles accepted in ConversationMessage.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one prior turn of a multi-turn conversation,
// injected into the prompt so the model has cross-request memory.
type ConversationMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ResearchRequest describes one research run.
//
// Query is required. MaxIterations overrides the engine default when
// positive; it is capped by Config.MaxIterationsCap. CustomerID narrows the
// research to a single customer and is echoed into the prompt.
type ResearchRequest struct {
	Query               string                `json:"query"`
	Context             string                `json:"context,omitempty"`
	MaxIterations       int                   `json:"maxIterations,omitempty"`
	CustomerID          string                `json:"customerId,omitempty"`
	ConversationHistory []ConversationMessage `json:"conversationHistory,omitempty"`
}

// Validate checks the request before any iteration starts. Failures are
// non-retryable and surface immediately to the caller with code
// VALIDATION_ERROR.
func (r *ResearchRequest) Validate() error {
	if r == nil {
		return newValidationError("request is nil")
	}
	if strings.TrimSpace(r.Query) == "" {
		return newValidationError("query must not be empty")
	}
	if r.MaxIterations < 0 {
		return newValidationError("maxIterations must not be negative")
	}
	for i, msg := range r.ConversationHistory {
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			return newValidationError(
				"conversationHistory[%d].role must be %q or %q, got %q",
				i, RoleUser, RoleAssistant, msg.Role)
		}
	}
	return nil
}
