package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a process-wide map. Entries are never
// evicted; the map grows for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
}

type memoryEntry struct {
	mu   sync.Mutex
	sess *Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryEntry)}
}

// Create registers a fresh session under id, replacing any previous one.
func (s *MemoryStore) Create(ctx context.Context, id string) (*Session, error) {
	sess := New(id)
	s.mu.Lock()
	s.sessions[id] = &memoryEntry{sess: sess}
	s.mu.Unlock()
	return sess, nil
}

// Update applies fn to the session under its lock. Turns on the same id are
// serialized; turns on different ids proceed in parallel.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) error {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.sess)
}
