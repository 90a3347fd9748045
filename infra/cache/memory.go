package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/classgrid/core/model"
)

type memoryEntry struct {
	resp    model.GenerateResponse
	expires time.Time
}

// MemoryStore keeps responses in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  clock
	data map[string]memoryEntry
}

// NewMemoryStore returns a store whose entries live for ttl. A non-positive
// ttl keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, data: map[string]memoryEntry{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (model.GenerateResponse, bool, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return model.GenerateResponse{}, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return model.GenerateResponse{}, false, nil
	}
	return e.resp, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, resp model.GenerateResponse) error {
	e := memoryEntry{resp: resp}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
