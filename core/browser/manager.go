package browser

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kilianp07/classgrid/core/logger"
	"github.com/kilianp07/classgrid/internal/eventbus"
)

// Manager owns the live sessions.
type Manager struct {
	gen     Generator
	catalog CourseValidator
	bus     eventbus.Publisher
	log     logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions share the given collaborators.
func NewManager(gen Generator, catalog CourseValidator, bus eventbus.Publisher, log logger.Logger) (*Manager, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Manager{gen: gen, catalog: catalog, bus: bus, log: log, sessions: map[string]*Session{}}, nil
}

// Create starts a new session with a random id.
func (m *Manager) Create() *Session {
	s := NewSession(uuid.NewString(), m.gen, m.catalog, m.bus, m.log)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.log.Debugw("session created", map[string]any{"session": s.ID()})
	return s
}

// Get returns the session or ErrSessionNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Delete forgets a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
