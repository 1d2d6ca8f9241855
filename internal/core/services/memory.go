package services

import (
	"strings"
	"sync"
)

// DefaultHistoryWindow is the default number of exchanges kept per session.
const DefaultHistoryWindow = 2

// Exchange is one user/assistant turn pair.
type Exchange struct {
	User      string
	Assistant string
}

// ConversationMemory keeps a bounded sliding window of exchanges per
// session. Sessions are created lazily on first use and isolated by id;
// they live for the process lifetime.
type ConversationMemory struct {
	mu       sync.Mutex
	window   int
	sessions map[string]*session
}

type session struct {
	mu        sync.Mutex
	exchanges []Exchange
}

// NewConversationMemory creates a memory keeping the most recent window
// exchanges per session. A non-positive window falls back to the default.
func NewConversationMemory(window int) *ConversationMemory {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &ConversationMemory{
		window:   window,
		sessions: make(map[string]*session),
	}
}

// session returns the session record for an id, creating it if needed.
func (m *ConversationMemory) session(id string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &session{}
		m.sessions[id] = s
	}
	return s
}

// Append records one completed exchange, evicting the oldest exchange
// first once the window is exceeded.
func (m *ConversationMemory) Append(sessionID, userText, assistantText string) {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exchanges = append(s.exchanges, Exchange{User: userText, Assistant: assistantText})
	if len(s.exchanges) > m.window {
		s.exchanges = s.exchanges[len(s.exchanges)-m.window:]
	}
}

// History returns the session's recent exchanges formatted for injection
// into the model's context. Unknown sessions yield an empty string.
func (m *ConversationMemory) History(sessionID string) string {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.exchanges) == 0 {
		return ""
	}

	var b strings.Builder
	for i, ex := range s.exchanges {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("User: ")
		b.WriteString(ex.User)
		b.WriteString("\nAssistant: ")
		b.WriteString(ex.Assistant)
	}
	return b.String()
}

// Exchanges returns a copy of the session's current window, for display.
func (m *ConversationMemory) Exchanges(sessionID string) []Exchange {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}
