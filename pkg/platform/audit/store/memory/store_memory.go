package memory

import (
	"context"
	"sync"

	audit "pkgconfirm/pkg/platform/audit"
)

// InMemoryStore keeps audit events per session. With a capacity it keeps only
// the newest events.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   map[string][]audit.Event
	order    []audit.Event
	capacity int
}

type Option func(*InMemoryStore)

// WithCapacity bounds the number of retained events. Zero keeps everything.
func WithCapacity(n int) Option {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{events: make(map[string][]audit.Event)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.SessionID] = append(s.events[event.SessionID], event)
	s.order = append(s.order, event)
	if s.capacity > 0 && len(s.order) > s.capacity {
		s.evictOldest()
	}
	return nil
}

// The oldest event overall is also the oldest of its session.
func (s *InMemoryStore) evictOldest() {
	oldest := s.order[0]
	s.order = s.order[1:]
	remaining := s.events[oldest.SessionID][1:]
	if len(remaining) == 0 {
		delete(s.events, oldest.SessionID)
		return
	}
	s.events[oldest.SessionID] = remaining
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[sessionID]...), nil
}
