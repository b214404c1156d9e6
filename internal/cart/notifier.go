package cart

import (
	"context"
	"sync"
)

// Notifier abonnement aux changements d'un panier. L'annulation ferme le canal.
type Notifier interface {
	Subscribe(ctx context.Context, userID string) (<-chan string, func(), error)
}

func (s *RedisStore) Subscribe(ctx context.Context, userID string) (<-chan string, func(), error) {
	pubsub := s.client.Subscribe(ctx, Channel(userID))
	// attend la confirmation d'abonnement avant de rendre la main
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan string, 8)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			default:
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(func() { pubsub.Close() }) }, nil
}

var (
	_ Notifier = (*RedisStore)(nil)
	_ Notifier = (*MemoryStore)(nil)
)

// broadcaster diffusion en mémoire pour MemoryStore
type broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan string]struct{}
}

func (b *broadcaster) subscribe(userID string) (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[string]map[chan string]struct{})
	}
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan string]struct{})
	}
	ch := make(chan string, 8)
	b.subs[userID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], ch)
			close(ch)
		})
	}
}

func (b *broadcaster) publish(userID, event string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}
