package wishlist

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore garde l'ordre d'insertion
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]string)}
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items[userID]), nil
}

func (s *MemoryStore) Contains(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.items[userID], productID), nil
}

func (s *MemoryStore) Add(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.items[userID], productID) {
		return false, nil
	}
	s.items[userID] = append(s.items[userID], productID)
	return true, nil
}

func (s *MemoryStore) Remove(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.items[userID], productID)
	if i < 0 {
		return false, nil
	}
	s.items[userID] = slices.Delete(s.items[userID], i, i+1)
	return true, nil
}
