package state

import (
	"context"
	"slices"

	"cedra_storefront/internal/client"
	"cedra_storefront/internal/models"
)

type WishlistService struct {
	api     client.API
	concern *Concern[[]models.Product]
}

func NewWishlistService(api client.API) *WishlistService {
	return &WishlistService{api: api, concern: newConcern[[]models.Product]()}
}

func (s *WishlistService) State() Snapshot[[]models.Product] {
	return s.concern.Snapshot()
}

func (s *WishlistService) Items() []models.Product {
	return s.concern.current()
}

func (s *WishlistService) Count() int {
	return len(s.Items())
}

func (s *WishlistService) Contains(productID string) bool {
	return slices.ContainsFunc(s.Items(), func(p models.Product) bool {
		return p.ID == productID
	})
}

func (s *WishlistService) Sync(ctx context.Context) error {
	return s.apply(ctx, s.api.Wishlist)
}

func (s *WishlistService) Add(ctx context.Context, productID string) error {
	return s.apply(ctx, func(ctx context.Context) ([]models.Product, error) {
		return s.api.AddToWishlist(ctx, productID)
	})
}

func (s *WishlistService) Remove(ctx context.Context, productID string) error {
	return s.apply(ctx, func(ctx context.Context) ([]models.Product, error) {
		return s.api.RemoveFromWishlist(ctx, productID)
	})
}

// Toggle retire le produit s'il est dans le miroir, l'ajoute sinon.
// Retourne la présence après l'opération.
func (s *WishlistService) Toggle(ctx context.Context, productID string) (bool, error) {
	if s.Contains(productID) {
		if err := s.Remove(ctx, productID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(ctx, productID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *WishlistService) apply(ctx context.Context, call func(context.Context) ([]models.Product, error)) error {
	seq := s.concern.begin()
	items, err := call(ctx)
	if err == nil && items == nil {
		items = []models.Product{}
	}
	s.concern.finish(seq, items, err)
	return err
}

func (s *WishlistService) reset() {
	s.concern.reset()
}
