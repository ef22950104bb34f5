package sandbox

import (
	"sync"
	"time"

	"github.com/dmitrymomot/alianzmail/pkg/id"
	"github.com/dmitrymomot/alianzmail/pkg/mailer"
)

// Message is one accepted send request.
type Message struct {
	ReceivedAt  time.Time       `json:"received_at"`
	ID          string          `json:"id"`
	RequestID   string          `json:"request_id,omitempty"`
	UserAgent   string          `json:"user_agent,omitempty"`
	ContentType string          `json:"content_type"`
	Token       string          `json:"-"`
	Document    mailer.Document `json:"document"`
}

// Store keeps accepted messages in insertion order. Safe for concurrent use.
type Store struct {
	messages []Message
	limit    int
	mu       sync.RWMutex
}

// NewStore creates an empty store holding at most limit messages.
// A limit of zero or less means unbounded.
func NewStore(limit int) *Store {
	return &Store{limit: limit}
}

// Add assigns an id and receive time to msg and records it.
// Returns ErrStoreFull once the limit is reached.
func (s *Store) Add(msg Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit > 0 && len(s.messages) >= s.limit {
		return Message{}, ErrStoreFull
	}

	msg.ID = id.New()
	msg.ReceivedAt = time.Now().UTC()
	s.messages = append(s.messages, msg)
	return msg, nil
}

// Full reports whether the next Add would fail.
func (s *Store) Full() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limit > 0 && len(s.messages) >= s.limit
}

// Get returns the message with the given id.
func (s *Store) Get(id string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// List returns a copy of all messages in the order they were accepted.
func (s *Store) List() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of recorded messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Reset drops every message.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
