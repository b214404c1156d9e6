package state

import (
	"context"

	"cedra_storefront/internal/client"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/shopspring/decimal"
)

// CartService miroir du panier. Chaque mutation remplace le miroir par la réponse du serveur.
type CartService struct {
	api     client.API
	concern *Concern[models.CartView]
}

func NewCartService(api client.API) *CartService {
	return &CartService{api: api, concern: newConcern[models.CartView]()}
}

func (s *CartService) State() Snapshot[models.CartView] {
	return s.concern.Snapshot()
}

func (s *CartService) Items() []models.CartItem {
	return s.concern.current().Items
}

// Count somme des quantités du miroir
func (s *CartService) Count() int {
	return models.CartCount(s.Items())
}

// Total somme quantité × prix du miroir
func (s *CartService) Total() decimal.Decimal {
	return models.CartTotal(s.Items())
}

func (s *CartService) FormattedTotal() string {
	return utils.FormatAmount(s.Total())
}

// Sync recharge le panier depuis le serveur
func (s *CartService) Sync(ctx context.Context) error {
	return s.apply(ctx, s.api.Cart)
}

func (s *CartService) Add(ctx context.Context, productID string, quantity int) error {
	return s.apply(ctx, func(ctx context.Context) (models.CartView, error) {
		return s.api.AddToCart(ctx, productID, quantity)
	})
}

func (s *CartService) Update(ctx context.Context, productID string, quantity int) error {
	return s.apply(ctx, func(ctx context.Context) (models.CartView, error) {
		return s.api.UpdateCartItem(ctx, productID, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, productID string) error {
	return s.apply(ctx, func(ctx context.Context) (models.CartView, error) {
		return s.api.RemoveFromCart(ctx, productID)
	})
}

func (s *CartService) Clear(ctx context.Context) error {
	return s.apply(ctx, s.api.ClearCart)
}

func (s *CartService) apply(ctx context.Context, call func(context.Context) (models.CartView, error)) error {
	seq := s.concern.begin()
	view, err := call(ctx)
	s.concern.finish(seq, view, err)
	return err
}

func (s *CartService) reset() {
	s.concern.reset()
}
