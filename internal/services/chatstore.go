package services

import (
	"sync"
	"time"
)

// ChatMessage is one stored conversation turn.
type ChatMessage struct {
	Role      string
	Text      string
	Timestamp time.Time
}

type conversation struct {
	messages []ChatMessage
	updated  time.Time
}

// ChatStore holds a bounded, time-expiring transcript per conversation id.
// Expired conversations are evicted lazily on read; there is no background
// sweep. Safe for concurrent use.
type ChatStore struct {
	mu          sync.Mutex
	ttl         time.Duration
	maxMessages int
	data        map[string]*conversation
	now         func() time.Time
}

func NewChatStore(ttl time.Duration, maxMessages int) *ChatStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxMessages <= 0 {
		maxMessages = 60
	}
	return &ChatStore{
		ttl:         ttl,
		maxMessages: maxMessages,
		data:        make(map[string]*conversation),
		now:         time.Now,
	}
}

// Add appends a turn to the conversation, creating it on first use and
// dropping the oldest turns once the window exceeds the bound.
func (s *ChatStore) Add(conversationID, role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := s.data[conversationID]
	if conv == nil {
		conv = &conversation{}
		s.data[conversationID] = conv
	}

	conv.messages = append(conv.messages, ChatMessage{Role: role, Text: text, Timestamp: now})
	if len(conv.messages) > s.maxMessages {
		conv.messages = conv.messages[len(conv.messages)-s.maxMessages:]
	}
	conv.updated = now
}

// Get returns the transcript for a conversation id, or nil when the
// conversation is unknown or its TTL has elapsed.
func (s *ChatStore) Get(conversationID string) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.data[conversationID]
	if conv == nil {
		return nil
	}

	if s.now().Sub(conv.updated) > s.ttl {
		delete(s.data, conversationID)
		return nil
	}

	out := make([]ChatMessage, len(conv.messages))
	copy(out, conv.messages)
	return out
}
