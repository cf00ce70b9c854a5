package session

import (
	"context"
	"sync"
	"time"

	"github.com/jun/drivebox/internal/model"
)

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart; this is the documented behavior for DEV_MODE and tests. Production
// uses DynamoStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]model.Session)}
}

// Put stores or replaces the session record.
func (s *MemoryStore) Put(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	s.sessions[sess.Token] = *sess
	s.mu.Unlock()
	return nil
}

// Get returns the session for the token, or ErrNotFound if it is missing or
// expired. Expired records are dropped on access.
func (s *MemoryStore) Get(_ context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if sess.Expired(time.Now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	out := sess
	return &out, nil
}

// Delete removes the session. Deleting an unknown token is not an error.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
