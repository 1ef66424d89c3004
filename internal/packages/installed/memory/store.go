package memory

import (
	"context"
	"sort"
	"sync"

	"pkgconfirm/internal/packages/installed"
	"pkgconfirm/pkg/domain"
	"pkgconfirm/pkg/platform/sentinel"
)

// InMemoryStore keeps installed-package records in a map.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.PackageName]installed.Record
}

func New() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.PackageName]installed.Record)}
}

func (s *InMemoryStore) Get(_ context.Context, name domain.PackageName) (*installed.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := clone(rec)
	return &out, nil
}

// FindByOriginalName returns every record that lists name among its former
// names, ordered by current package name.
func (s *InMemoryStore) FindByOriginalName(_ context.Context, name domain.PackageName) ([]installed.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []installed.Record
	for _, rec := range s.records {
		if rec.HasOriginalName(name) {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PackageName < out[j].PackageName })
	return out, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, record installed.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.PackageName] = clone(record)
	return nil
}

func clone(r installed.Record) installed.Record {
	r.Permissions = append([]string(nil), r.Permissions...)
	r.OriginalNames = append([]domain.PackageName(nil), r.OriginalNames...)
	return r
}
