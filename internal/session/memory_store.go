package session

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore keeps sessions in process memory. It is used when Redis is
// unavailable and in tests; sessions do not survive a restart.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]Record), now: time.Now}
}

func (s *memoryStore) Save(_ context.Context, id string, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !rec.ExpiresAt.After(s.now()) {
		delete(s.records, id)
		return nil
	}
	cp := *rec
	cp.Flashes = append([]string(nil), rec.Flashes...)
	s.records[id] = cp
	return nil
}

func (s *memoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !rec.ExpiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.records, id)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	rec.Flashes = append([]string(nil), rec.Flashes...)
	return &rec, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
	return nil
}
