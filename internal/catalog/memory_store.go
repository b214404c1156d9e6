package catalog

import (
	"context"
	"sync"

	"cedra_storefront/internal/models"
)

// MemoryStore catalogue en mémoire (dev local et tests)
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

func NewMemoryStore(products ...models.Product) *MemoryStore {
	s := &MemoryStore{products: make(map[string]models.Product, len(products))}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *MemoryStore) all() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out
}

func (s *MemoryStore) Find(ctx context.Context, f Filter, sort Sort, skip, limit int) ([]models.Product, error) {
	return Apply(s.all(), f, sort, skip, limit), nil
}

func (s *MemoryStore) Count(ctx context.Context, f Filter) (int64, error) {
	return int64(len(Select(s.all(), f))), nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *MemoryStore) Insert(ctx context.Context, products ...models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		s.products[p.ID] = p
	}
	return nil
}
