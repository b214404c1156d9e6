package wishlist

import (
	"context"
	"slices"
	"time"

	"cedra_storefront/internal/cache"
	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/sirupsen/logrus"
)

// Cache cache JSON optionnel de la wishlist résolue
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	store    Store
	products catalog.ProductFinder
	cache    Cache
	log      *logrus.Entry
}

// NewService cache peut être nil
func NewService(store Store, products catalog.ProductFinder, cache Cache, log *logrus.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		cache:    cache,
		log:      log.WithField("component", "wishlist"),
	}
}

// List retourne les produits de la wishlist, dans l'ordre d'ajout
func (s *Service) List(ctx context.Context, userID string) ([]models.Product, error) {
	if s.cache != nil {
		var cached []models.Product
		if ok, err := s.cache.GetJSON(ctx, cache.WishlistKey(userID), &cached); err == nil && ok {
			return cached, nil
		}
	}

	ids, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError("Erreur lecture wishlist", err)
	}
	products, err := catalog.FindByIDs(ctx, s.products, ids)
	if err != nil {
		return nil, utils.NewInternalError("Erreur lecture produits", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.WishlistKey(userID), products, cache.WishlistCacheTTL); err != nil {
			s.log.WithError(err).Warn("⚠️ Écriture cache wishlist impossible")
		}
	}
	return products, nil
}

func (s *Service) Contains(ctx context.Context, userID, rawProductID string) (bool, error) {
	productID, err := utils.ParseID(rawProductID, "ID produit")
	if err != nil {
		return false, err
	}
	ok, err := s.store.Contains(ctx, userID, productID)
	if err != nil {
		return false, utils.NewInternalError("Erreur lecture wishlist", err)
	}
	return ok, nil
}

// Add échoue en NotFound si le produit n'existe pas, en Conflict s'il est déjà présent
func (s *Service) Add(ctx context.Context, userID, rawProductID string) ([]models.Product, error) {
	productID, err := utils.ParseID(rawProductID, "ID produit")
	if err != nil {
		return nil, err
	}
	product, err := catalog.ResolveProduct(ctx, s.products, productID)
	if err != nil {
		return nil, err
	}
	before, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	added, err := s.store.Add(ctx, userID, productID)
	if err != nil {
		return nil, utils.NewInternalError("Erreur ajout à la wishlist", err)
	}
	if !added {
		return nil, utils.NewConflictError("Produit déjà dans la wishlist")
	}
	s.invalidate(ctx, userID)

	s.log.WithFields(logrus.Fields{"user_id": userID, "product_id": productID}).Info("⭐ Produit ajouté à la wishlist")
	return s.listAfterWrite(ctx, userID, append(slices.Clone(before), product)), nil
}

// Remove échoue en NotFound si le produit n'est pas dans la wishlist
func (s *Service) Remove(ctx context.Context, userID, rawProductID string) ([]models.Product, error) {
	productID, err := utils.ParseID(rawProductID, "ID produit")
	if err != nil {
		return nil, err
	}

	before, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.Remove(ctx, userID, productID)
	if err != nil {
		return nil, utils.NewInternalError("Erreur suppression de la wishlist", err)
	}
	if !removed {
		return nil, utils.NewNotFoundError("Produit absent de la wishlist")
	}
	s.invalidate(ctx, userID)

	s.log.WithFields(logrus.Fields{"user_id": userID, "product_id": productID}).Info("🗑️ Produit retiré de la wishlist")
	known := slices.DeleteFunc(slices.Clone(before), func(p models.Product) bool { return p.ID == productID })
	return s.listAfterWrite(ctx, userID, known), nil
}

// listAfterWrite relit la wishlist après une écriture validée. Si la relecture échoue, l'écriture
// reste acquise : on renvoie la liste reconstituée à partir de l'état lu avant l'écriture.
func (s *Service) listAfterWrite(ctx context.Context, userID string, known []models.Product) []models.Product {
	products, err := s.List(ctx, userID)
	if err == nil {
		return products
	}
	s.log.WithError(err).WithField("user_id", userID).Warn("⚠️ Relecture wishlist impossible après écriture, liste reconstituée")
	return known
}

// Toggle retire le produit s'il est présent, l'ajoute sinon. Retourne la liste et la nouvelle appartenance.
func (s *Service) Toggle(ctx context.Context, userID, rawProductID string) ([]models.Product, bool, error) {
	present, err := s.Contains(ctx, userID, rawProductID)
	if err != nil {
		return nil, false, err
	}
	if present {
		products, err := s.Remove(ctx, userID, rawProductID)
		return products, false, err
	}
	products, err := s.Add(ctx, userID, rawProductID)
	return products, true, err
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.WishlistKey(userID)); err != nil {
		s.log.WithError(err).Warn("⚠️ Invalidation cache wishlist impossible")
	}
}
