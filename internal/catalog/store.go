package catalog

import (
	"context"
	"errors"

	"cedra_storefront/internal/models"
)

var ErrProductNotFound = errors.New("produit introuvable")

// Store accès en lecture au catalogue (plus Insert pour l'amorçage)
type Store interface {
	Find(ctx context.Context, f Filter, s Sort, skip, limit int) ([]models.Product, error)
	Count(ctx context.Context, f Filter) (int64, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Insert(ctx context.Context, products ...models.Product) error
}

// ProductFinder sous-ensemble utilisé par le panier et la wishlist
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (models.Product, error)
}

// FindByIDs résout les références dans l'ordre donné, les produits disparus sont ignorés
func FindByIDs(ctx context.Context, finder ProductFinder, ids []string) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, err := finder.FindByID(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
