package assistant

import (
	"sync"
	"time"

	"eventieBot/internal/models/domain"
)

// Session is the explicit per-conversation state: cumulative
// preferences, append-only history and the retained recommendation
// pool. One session per conversation, no ambient globals.
type Session struct {
	ID          string
	Preferences domain.PreferenceState
	History     []domain.Turn
	// Pool keeps the last search's top results for exports and
	// follow-ups; the user only sees the first few.
	Pool      []domain.Recommendation
	CreatedAt time.Time

	// Turns for one session are processed strictly one at a time.
	mu sync.Mutex
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// AppendTurn records one history entry.
func (s *Session) AppendTurn(role domain.Role, text string) {
	s.History = append(s.History, domain.Turn{Role: role, Text: text})
}

// PoolSnapshot returns a copy of the retained recommendation pool.
func (s *Session) PoolSnapshot() []domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := make([]domain.Recommendation, len(s.Pool))
	copy(pool, s.Pool)
	return pool
}

// Reset clears the conversation back to its initial empty state.
func (s *Session) Reset() {
	s.Preferences = domain.PreferenceState{}
	s.History = nil
	s.Pool = nil
}

// SessionManager owns the sessions of all active conversations.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for a conversation id, creating it on first
// use.
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}

	s := NewSession(id)
	m.sessions[id] = s
	return s
}

// Reset starts the conversation over for the given id.
func (m *SessionManager) Reset(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.mu.Lock()
		s.Reset()
		s.mu.Unlock()
	}
}
