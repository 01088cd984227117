package offline

import (
	"context"
	"net/http"
	"sync"

	"activation-admin/internal/domain"
)

// Entry is one cached response.
type Entry struct {
	Path   string      `json:"path"`
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Store holds named caches. Match returns domain.ErrCacheMiss when absent.
type Store interface {
	PutAll(ctx context.Context, cache string, entries []Entry) error
	Match(ctx context.Context, cache, path string) (*Entry, error)
}

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu     sync.RWMutex
	caches map[string]map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{caches: map[string]map[string]Entry{}}
}

func (s *MemoryStore) PutAll(_ context.Context, cache string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.caches[cache]
	if !ok {
		c = map[string]Entry{}
		s.caches[cache] = c
	}
	for _, e := range entries {
		c[e.Path] = e
	}
	return nil
}

func (s *MemoryStore) Match(_ context.Context, cache, path string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.caches[cache][path]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return &e, nil
}
