package interview

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager creates and tracks interview sessions by id.
type Manager struct {
	evaluator Evaluator
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a Manager over the given evaluator.
func NewManager(evaluator Evaluator, logger *zap.Logger) *Manager {
	return &Manager{
		evaluator: evaluator,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// NewSession creates a session with a fresh id over the given CV and
// JD texts. The session is tracked until Remove.
func (m *Manager) NewSession(cvText, jdText string) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		CVText:    cvText,
		JDText:    jdText,
		evaluator: m.evaluator,
		logger:    m.logger,
		now:       time.Now,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

// Get returns the tracked session for an id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("interview session %q not found", id)
	}
	return session, nil
}

// Remove forgets a finished session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
