package cart

import (
	"context"
	"slices"
	"sync"
	"time"

	"cedra_storefront/internal/models"
)

type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
	bus   broadcaster
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]models.Cart)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		return emptyCart(userID), nil
	}
	c.Items = slices.Clone(c.Items)
	return c, nil
}

func (s *MemoryStore) Save(ctx context.Context, cart models.Cart) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.carts[cart.UserID].Version
	if current != cart.Version {
		return models.Cart{}, ErrVersionConflict
	}

	cart.Version = current + 1
	cart.UpdatedAt = time.Now().UTC()
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.Items = slices.Clone(cart.Items)
	s.carts[cart.UserID] = cart

	event := EventUpdated
	if len(cart.Items) == 0 {
		event = EventCleared
	}
	s.bus.publish(cart.UserID, event)

	out := cart
	out.Items = slices.Clone(cart.Items)
	return out, nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, userID string) (<-chan string, func(), error) {
	ch, cancel := s.bus.subscribe(userID)
	return ch, cancel, nil
}
