package history

import (
	"context"
	"sync"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

// Store persists the history list of an owner. Implementations return
// errors wrapping domain.ErrHistoryStorage, including for unreadable data.
type Store interface {
	Load(ctx context.Context, owner string) ([]domain.SearchHistoryEntry, error)
	Save(ctx context.Context, owner string, entries []domain.SearchHistoryEntry) error
	Clear(ctx context.Context, owner string) error
}

// Key returns the storage key of owner's history. The anonymous owner uses
// the bare key.
func Key(owner string) string {
	if owner == "" {
		return domain.HistoryKey
	}
	return domain.HistoryKey + ":" + owner
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]domain.SearchHistoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]domain.SearchHistoryEntry)}
}

// Load returns a copy of owner's entries.
func (s *MemoryStore) Load(_ context.Context, owner string) ([]domain.SearchHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.data[Key(owner)]
	out := make([]domain.SearchHistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Save replaces owner's entries.
func (s *MemoryStore) Save(_ context.Context, owner string, entries []domain.SearchHistoryEntry) error {
	cp := make([]domain.SearchHistoryEntry, len(entries))
	copy(cp, entries)
	s.mu.Lock()
	s.data[Key(owner)] = cp
	s.mu.Unlock()
	return nil
}

// Clear removes owner's entries.
func (s *MemoryStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	delete(s.data, Key(owner))
	s.mu.Unlock()
	return nil
}
