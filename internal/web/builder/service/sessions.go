package service

import (
	"sync"

	"github.com/Laisky/supabuilder-api/internal/web/builder/model"

	gutils "github.com/Laisky/go-utils/v6"
	"github.com/google/uuid"
)

// Session owns one conversation: its append-only history and the
// single-outstanding-turn guard. History grows without bound, which is
// acceptable for a single-device product.
type Session struct {
	ID string

	mu       sync.Mutex
	busy     bool
	messages []model.Message
}

// Begin reserves the session for one turn. It returns false when a turn
// is already outstanding; the caller must reject the request instead of
// overlapping turns.
func (s *Session) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return false
	}

	s.busy = true
	return true
}

// End releases the turn reservation.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// Append adds a message to the history. Appended messages are never
// mutated or removed.
func (s *Session) Append(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// History returns a copy of the conversation so far.
func (s *Session) History() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports how many messages the session holds.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Sessions is the in-process conversation registry.
type Sessions struct {
	sessions sync.Map
}

func NewSessions() *Sessions {
	return &Sessions{}
}

// GetOrCreate returns the session for the id, allocating a fresh one
// (with a fresh id) when the client sent none.
func (s *Sessions) GetOrCreate(id string) *Session {
	if id == "" {
		id = uuid.New().String()
	}

	sess := &Session{ID: id}
	if raw, loaded := s.sessions.LoadOrStore(id, sess); loaded {
		return raw.(*Session)
	}

	return sess
}

// NewUserMessage builds an immutable user message for the current turn.
func NewUserMessage(text string, attachments []model.Attachment) model.Message {
	return model.Message{
		ID:          uuid.New().String(),
		Role:        model.RoleUser,
		Text:        text,
		CreatedAt:   gutils.Clock.GetUTCNow(),
		Attachments: attachments,
	}
}

// NewAssistantMessage builds an immutable assistant message.
func NewAssistantMessage(text string, action *model.ActionDescriptor) model.Message {
	return model.Message{
		ID:        uuid.New().String(),
		Role:      model.RoleAssistant,
		Text:      text,
		CreatedAt: gutils.Clock.GetUTCNow(),
		Action:    action,
	}
}
