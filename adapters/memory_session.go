package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
)

// MemorySessionRepository is an in-memory implementation of
// SessionRepository for development and tests
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
}

var _ repositories.SessionRepository = (*MemorySessionRepository)(nil)

// NewMemorySessionRepository creates a new in-memory session repository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entities.Session),
	}
}

// Create implements repositories.SessionRepository
func (m *MemorySessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return errors.New("session already exists")
	}

	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

// GetByID implements repositories.SessionRepository
func (m *MemorySessionRepository) GetByID(ctx context.Context, id string) (*entities.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, nil
	}

	copied := *session
	return &copied, nil
}

// GetLastByDeviceID implements repositories.SessionRepository
func (m *MemorySessionRepository) GetLastByDeviceID(ctx context.Context, deviceID string) (*entities.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var last *entities.Session
	for _, session := range m.sessions {
		if session.DeviceID != deviceID {
			continue
		}
		if last == nil || session.LastActiveAt.After(last.LastActiveAt) {
			last = session
		}
	}

	if last == nil {
		return nil, nil
	}

	copied := *last
	return &copied, nil
}

// Update implements repositories.SessionRepository
func (m *MemorySessionRepository) Update(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; !exists {
		return errors.New("session not found")
	}

	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

// AppendSegment implements repositories.SessionRepository
func (m *MemorySessionRepository) AppendSegment(ctx context.Context, sessionID string, segment entities.Segment) error {
	if err := segment.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return errors.New("session not found")
	}

	session.AddSegment(segment)
	return nil
}

// ExpireSessions implements repositories.SessionRepository
func (m *MemorySessionRepository) ExpireSessions(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, session := range m.sessions {
		if session.Status == entities.SessionStatusActive && now.After(session.ExpiresAt) {
			session.Expire()
		}
	}
	return nil
}
