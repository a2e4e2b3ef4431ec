package store

import (
	"context"
	"sort"
	"sync"

	"github.com/negochallenge/backend/internal/model/negotiation"
	"github.com/negochallenge/backend/internal/model/waitlist"
)

// Memory is the default store: mutex-guarded maps, suitable for development
// and the public demo deployment.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]negotiation.Session
	messages map[string][]negotiation.Message
	entries  map[string]waitlist.Entry // keyed by contact value
	order    []string                  // session creation order
}

// NewMemory bootstraps an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]negotiation.Session),
		messages: make(map[string][]negotiation.Message),
		entries:  make(map[string]waitlist.Entry),
	}
}

func (m *Memory) CreateSession(_ context.Context, s negotiation.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionID] = s
	m.messages[s.SessionID] = make([]negotiation.Message, 0, 16)
	m.order = append(m.order, s.SessionID)
	return nil
}

func (m *Memory) SessionByID(_ context.Context, sessionID string) (negotiation.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return negotiation.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *Memory) UpdateSession(_ context.Context, s negotiation.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.SessionID]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[s.SessionID] = s
	return nil
}

func (m *Memory) ListSessions(_ context.Context) ([]negotiation.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]negotiation.Session, 0, len(m.order))
	// Newest first, matching the admin listing.
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.sessions[m.order[i]])
	}
	return out, nil
}

func (m *Memory) AppendMessage(_ context.Context, msg negotiation.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[msg.SessionID]; !ok {
		return ErrSessionNotFound
	}
	m.messages[msg.SessionID] = append(m.messages[msg.SessionID], msg)
	return nil
}

func (m *Memory) Transcript(_ context.Context, sessionID string) ([]negotiation.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs, ok := m.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := make([]negotiation.Message, len(msgs))
	copy(copied, msgs)
	return copied, nil
}

func (m *Memory) MessageCount(_ context.Context, sessionID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs, ok := m.messages[sessionID]
	if !ok {
		return 0, ErrSessionNotFound
	}
	return len(msgs), nil
}

func (m *Memory) CreateWaitlistEntry(_ context.Context, e waitlist.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ContactValue] = e
	return nil
}

func (m *Memory) WaitlistEntryByContact(_ context.Context, contactValue string) (waitlist.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[contactValue]
	if !ok {
		return waitlist.Entry{}, ErrEntryNotFound
	}
	return e, nil
}

func (m *Memory) WaitlistEntryByCode(_ context.Context, code string) (waitlist.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ReferralCode == code {
			return e, nil
		}
	}
	return waitlist.Entry{}, ErrEntryNotFound
}

func (m *Memory) IncrementReferralCount(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.entries {
		if e.ReferralCode == code {
			e.ReferralCount++
			m.entries[key] = e
			return nil
		}
	}
	return ErrEntryNotFound
}

func (m *Memory) ListWaitlist(_ context.Context) ([]waitlist.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]waitlist.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) WaitlistCount(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}
