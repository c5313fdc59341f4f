package store

import (
	"sync"
	"time"
)

// Transport is the duplex channel a session talks over. The websocket client
// implements it; tests plug in fakes.
type Transport interface {
	Send(v interface{}) error
	Ping() error
	Close() error
}

const (
	TurnKindAudio = "audio"
	TurnKindText  = "text"
)

// Turn is one completed question/answer exchange.
type Turn struct {
	Timestamp     time.Time `json:"timestamp"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	VersesUsed    []string  `json:"verses_used,omitempty"`
	Kind          string    `json:"kind"` // "audio" | "text"
}

// Session is the in-memory state bound to one client connection.
// The session registry is its sole owner; other components read it through
// the accessor methods.
type Session struct {
	ID        string
	Transport Transport
	CreatedAt time.Time

	mu             sync.Mutex
	lastActivity   time.Time
	turns          []Turn
	interruptCount int
}

func NewSession(id string, transport Transport, now time.Time) *Session {
	return &Session{
		ID:           id,
		Transport:    transport,
		CreatedAt:    now,
		lastActivity: now,
	}
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) RecordTurn(turn Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// RecentTurns returns the newest n turns, oldest first.
func (s *Session) RecentTurns(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.turns) == 0 {
		return nil
	}
	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func (s *Session) Interrupt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interruptCount++
	return s.interruptCount
}

func (s *Session) InterruptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interruptCount
}

// Reset clears conversation state for a start_session message without
// tearing down the connection.
func (s *Session) Reset(now time.Time) {
	s.mu.Lock()
	s.turns = nil
	s.interruptCount = 0
	s.lastActivity = now
	s.mu.Unlock()
}
