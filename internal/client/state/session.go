package state

import (
	"context"
	"sync"

	"cedra_storefront/internal/client"

	"golang.org/x/sync/errgroup"
)

// Session regroupe les services d'un utilisateur et gère connexion / déconnexion
type Session struct {
	api client.API

	Search   *SearchService
	Cart     *CartService
	Wishlist *WishlistService

	mu    sync.Mutex
	gen   uint64
	ready bool
}

func NewSession(api client.API) *Session {
	return &Session{
		api:      api,
		Search:   NewSearchService(api),
		Cart:     NewCartService(api),
		Wishlist: NewWishlistService(api),
	}
}

// SignIn jette tout état local puis recharge panier et wishlist en parallèle.
// La session n'est prête que si les deux chargements ont réussi.
func (s *Session) SignIn(ctx context.Context, token string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.ready = false
	s.mu.Unlock()

	s.api.SetToken(token)
	s.Cart.reset()
	s.Wishlist.reset()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Cart.Sync(gctx) })
	g.Go(func() error { return s.Wishlist.Sync(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.ready = true
	}
	return nil
}

func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// SignOut efface tous les miroirs, sans possibilité de restauration
func (s *Session) SignOut() {
	s.mu.Lock()
	s.gen++
	s.ready = false
	s.mu.Unlock()

	s.api.SetToken("")
	s.Cart.reset()
	s.Wishlist.reset()
	s.Search.Clear()
}
