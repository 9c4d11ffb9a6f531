package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"love-booth/core"
)

// memStore keeps booth sessions in process memory. Frames never leave the
// process: closing a booth session discards its frames with it.
type memStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewStore creates a new in-memory session store.
func NewStore() *memStore {
	return &memStore{sessions: make(map[string]*core.Session)}
}

// Create registers a new booth session under its ID.
func (s *memStore) Create(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		return fmt.Errorf("%w: session ID cannot be empty", core.ErrInvalidInput)
	}
	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("%w: session %s already exists", core.ErrInvalidInput, session.ID)
	}
	s.sessions[session.ID] = session
	logrus.WithFields(logrus.Fields{
		"session_id": session.ID,
		"layout":     session.Layout.ID,
	}).Info("Booth session created")
	return nil
}

// Get retrieves a live booth session by its ID.
func (s *memStore) Get(ctx context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		logrus.WithField("session_id", id).Warn("Booth session not found")
		return nil, fmt.Errorf("%w: session %s", core.ErrNotFound, id)
	}
	return session, nil
}

// Delete closes a booth session, discarding its frames.
func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: session %s", core.ErrNotFound, id)
	}
	delete(s.sessions, id)
	logrus.WithField("session_id", id).Info("Booth session closed")
	return nil
}
