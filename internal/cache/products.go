package cache

import (
	"context"
	"time"

	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	ProductCacheTTL  = 10 * time.Minute
	WishlistCacheTTL = 10 * time.Minute
)

func ProductKey(productID string) string {
	return "product:" + productID
}

func WishlistKey(userID string) string {
	return "wishlist:" + userID
}

// ProductReader lecture d'une fiche produit avec cache Redis en lecture
type ProductReader struct {
	store catalog.ProductFinder
	cache *Cache
	log   *logrus.Entry
}

func NewProductReader(store catalog.ProductFinder, cache *Cache, log *logrus.Logger) *ProductReader {
	return &ProductReader{store: store, cache: cache, log: log.WithField("component", "product_cache")}
}

func (r *ProductReader) FindByID(ctx context.Context, id string) (models.Product, error) {
	key := ProductKey(id)

	var p models.Product
	if ok, err := r.cache.GetJSON(ctx, key, &p); err == nil && ok {
		return p, nil
	} else if err != nil {
		r.log.WithError(err).Warn("⚠️ Lecture cache produit impossible")
	}

	p, err := r.store.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if err := r.cache.SetJSON(ctx, key, p, ProductCacheTTL); err != nil {
		r.log.WithError(err).Warn("⚠️ Écriture cache produit impossible")
	}
	return p, nil
}
