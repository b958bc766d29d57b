package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryContentStore keeps payloads in a map. It backs the tests.
type MemoryContentStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{objects: make(map[string][]byte)}
}

func (s *MemoryContentStore) Save(_ context.Context, data []byte) (string, error) {
	ref := "memory/" + uuid.NewString()
	s.mu.Lock()
	s.objects[ref] = append([]byte(nil), data...)
	s.mu.Unlock()
	return ref, nil
}

// Get returns a stored payload, for assertions in tests.
func (s *MemoryContentStore) Get(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[ref]
	return data, ok
}
