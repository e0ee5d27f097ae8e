package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wager-program-backend/internal/models"
)

// MemoryStore keeps sessions in process. It backs local development and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]models.GameSession
	kills    map[string][]*models.KillEvent
	players  map[models.Address]map[string]struct{}
	counters map[string]*windowCounter
	nonces   map[string]time.Time
	now      func() time.Time
}

type windowCounter struct {
	count   int
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.GameSession),
		kills:    make(map[string][]*models.KillEvent),
		players:  make(map[models.Address]map[string]struct{}),
		counters: make(map[string]*windowCounter),
		nonces:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// Put stores a session as-is, replacing any previous value.
func (m *MemoryStore) Put(session *models.GameSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	m.indexLocked(session)
}

func (m *MemoryStore) SaveGameSession(_ context.Context, session *models.GameSession) error {
	m.Put(session)
	return nil
}

func (m *MemoryStore) GetGameSession(_ context.Context, sessionID string) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return &session, nil
}

func (m *MemoryStore) CommitGameSession(_ context.Context, session *models.GameSession, expectedVersion uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[session.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, session.ID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: %s", ErrStaleSession, session.ID)
	}

	m.sessions[session.ID] = *session
	m.indexLocked(session)
	return nil
}

func (m *MemoryStore) indexLocked(session *models.GameSession) {
	for _, seat := range session.Players() {
		set, ok := m.players[seat.Player]
		if !ok {
			set = make(map[string]struct{})
			m.players[seat.Player] = set
		}
		set[session.ID] = struct{}{}
	}
}

func (m *MemoryStore) SaveKillEvent(_ context.Context, event *models.KillEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := append(m.kills[event.SessionID], event)
	if len(events) > MaxSessionKills {
		events = events[len(events)-MaxSessionKills:]
	}
	m.kills[event.SessionID] = events
	return nil
}

func (m *MemoryStore) GetSessionKills(_ context.Context, sessionID string, limit int64) ([]*models.KillEvent, error) {
	if limit <= 0 || limit > MaxSessionKills {
		limit = 50
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	events := m.kills[sessionID]
	out := make([]*models.KillEvent, 0, min(int64(len(events)), limit))
	for i := len(events) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, events[i])
	}
	return out, nil
}

func (m *MemoryStore) GetPlayerSessions(_ context.Context, player models.Address) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.players[player]))
	for id := range m.players[player] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) CheckRateLimit(_ context.Context, subject, action string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf(KeyRateLimit, subject, action)
	now := m.now()

	counter, ok := m.counters[key]
	if !ok || !now.Before(counter.resetAt) {
		counter = &windowCounter{resetAt: now.Add(window)}
		m.counters[key] = counter
	}
	counter.count++

	return counter.count <= limit, nil
}

func (m *MemoryStore) ClaimLoginNonce(_ context.Context, player models.Address, message string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf(KeyLoginNonce, player, message)
	now := m.now()

	if expires, ok := m.nonces[key]; ok && now.Before(expires) {
		return false, nil
	}
	m.nonces[key] = now.Add(ttl)
	return true, nil
}
