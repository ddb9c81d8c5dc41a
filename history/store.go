// Package history keeps per-conversation message history in memory so
// multi-turn research requests can carry context across HTTP calls.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/journeyworks/reagent"
)

// DefaultCapacity is the per-conversation message cap.
const DefaultCapacity = 20

// Store holds bounded conversation histories keyed by conversation ID.
// When a conversation exceeds its capacity the oldest messages are dropped.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	capacity int
	convos   map[string][]reagent.ConversationMessage
}

// NewStore creates a store. capacity <= 0 uses DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		convos:   make(map[string][]reagent.ConversationMessage),
	}
}

// Start creates an empty conversation and returns its ID.
func (s *Store) Start() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convos[id] = nil
	return id
}

// Append records one turn. Unknown conversation IDs are created
// implicitly, so callers may use their own IDs without calling Start. A
// zero timestamp is filled with the current time.
func (s *Store) Append(conversationID, role, content string) {
	s.AppendMessage(conversationID, reagent.ConversationMessage{
		Role:    role,
		Content: content,
	})
}

// AppendMessage is Append for a fully-formed message.
func (s *Store) AppendMessage(conversationID string, msg reagent.ConversationMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.convos[conversationID], msg)
	if len(msgs) > s.capacity {
		msgs = msgs[len(msgs)-s.capacity:]
	}
	s.convos[conversationID] = msgs
}

// Get returns a copy of the conversation's messages, oldest first. Unknown
// IDs return an empty slice.
func (s *Store) Get(conversationID string) []reagent.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.convos[conversationID]
	out := make([]reagent.ConversationMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Clear deletes the conversation. It reports whether it existed.
func (s *Store) Clear(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.convos[conversationID]
	delete(s.convos, conversationID)
	return ok
}

// Len returns the number of stored messages for the conversation.
func (s *Store) Len(conversationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convos[conversationID])
}
