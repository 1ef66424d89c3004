package memory

import (
	"context"
	"sync"
	"time"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/pkg/domain"
	"pkgconfirm/pkg/platform/sentinel"
)

// InMemoryStore keeps confirmation sessions in a map. Update holds the lock
// for the whole read-modify-write, which serializes signals per session.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]*models.Session
}

func New() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[domain.SessionID]*models.Session)}
}

func (s *InMemoryStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return sentinel.ErrConflict
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.SessionID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return session.Clone(), nil
}

// Update applies fn to a copy of the session and stores the result only when
// fn succeeds.
func (s *InMemoryStore) Update(_ context.Context, id domain.SessionID, fn func(*models.Session) error) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.sessions[id] = next
	return next.Clone(), nil
}

// PurgeExpired drops sessions whose TTL passed before now and returns how
// many were removed.
func (s *InMemoryStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
