package cart

import (
	"context"
	"errors"
	"time"

	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	// clear est idempotent : on le rejoue quelques fois en cas d'écriture concurrente
	clearAttempts = 3

	// MaxQuantity quantité maximale d'une ligne de panier
	MaxQuantity = 999
)

// Service agrège les opérations panier : fusion des quantités, instantané produit au premier ajout.
//
// Rupture de stock : un ajout (même un simple incrément) d'un produit épuisé échoue ;
// une mise à jour peut baisser la quantité ou retirer l'article, mais pas l'augmenter.
type Service struct {
	store    Store
	products catalog.ProductFinder
	log      *logrus.Entry
	now      func() time.Time
}

func NewService(store Store, products catalog.ProductFinder, log *logrus.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		log:      log.WithField("component", "cart"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Get(ctx context.Context, userID string) (models.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, utils.NewInternalError("Erreur lecture panier", err)
	}
	return c, nil
}

// Add ajoute qty unités ; fusionne avec l'article existant
func (s *Service) Add(ctx context.Context, userID, rawProductID string, qty int) (models.Cart, error) {
	productID, err := utils.ParseID(rawProductID, "ID produit")
	if err != nil {
		return models.Cart{}, err
	}
	if qty < 1 || qty > MaxQuantity {
		return models.Cart{}, utils.NewValidationError("Quantité invalide")
	}

	product, err := catalog.ResolveProduct(ctx, s.products, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if !product.InStock {
		return models.Cart{}, utils.NewOutOfStockError("Produit en rupture de stock")
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}

	if i := c.IndexOf(productID); i >= 0 {
		if c.Items[i].Quantity > MaxQuantity-qty {
			return models.Cart{}, utils.NewValidationError("Quantité maximale dépassée")
		}
		c.Items[i].Quantity += qty
	} else {
		c.Items = append(c.Items, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  qty,
			AddedAt:   s.now(),
		})
	}

	saved, err := s.save(ctx, c)
	if err != nil {
		return models.Cart{}, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "product_id": productID, "quantity": qty}).
		Info("🛒 Produit ajouté au panier")
	return saved, nil
}

// Update remplace la quantité ; 0 retire l'article
func (s *Service) Update(ctx context.Context, userID, rawProductID string, qty int) (models.Cart, error) {
	productID, err := utils.ParseID(rawProductID, "ID produit")
	if err != nil {
		return models.Cart{}, err
	}
	if qty < 0 || qty > MaxQuantity {
		return models.Cart{}, utils.NewValidationError("Quantité invalide")
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	i := c.IndexOf(productID)
	if i < 0 {
		return models.Cart{}, utils.NewNotFoundError("Produit introuvable dans le panier")
	}

	switch {
	case qty == 0:
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	case qty > c.Items[i].Quantity:
		product, err := catalog.ResolveProduct(ctx, s.products, productID)
		if err != nil {
			return models.Cart{}, err
		}
		if !product.InStock {
			return models.Cart{}, utils.NewOutOfStockError("Produit en rupture de stock")
		}
		c.Items[i].Quantity = qty
	default:
		c.Items[i].Quantity = qty
	}

	return s.save(ctx, c)
}

// Remove retire l'article
func (s *Service) Remove(ctx context.Context, userID, rawProductID string) (models.Cart, error) {
	productID, err := utils.ParseID(rawProductID, "ID produit")
	if err != nil {
		return models.Cart{}, err
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	i := c.IndexOf(productID)
	if i < 0 {
		return models.Cart{}, utils.NewNotFoundError("Produit introuvable dans le panier")
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)

	return s.save(ctx, c)
}

// Clear vide le panier, réussit toujours sauf panne du stockage
func (s *Service) Clear(ctx context.Context, userID string) (models.Cart, error) {
	var lastErr error
	for range clearAttempts {
		c, err := s.Get(ctx, userID)
		if err != nil {
			return models.Cart{}, err
		}
		c.Items = []models.CartItem{}

		saved, err := s.store.Save(ctx, c)
		if err == nil {
			s.log.WithField("user_id", userID).Info("🗑️ Panier vidé")
			return saved, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return models.Cart{}, utils.NewInternalError("Erreur sauvegarde panier", err)
		}
		lastErr = err
	}
	return models.Cart{}, utils.NewRetryableConflict("Panier modifié entre-temps, réessayez", lastErr)
}

func (s *Service) save(ctx context.Context, c models.Cart) (models.Cart, error) {
	saved, err := s.store.Save(ctx, c)
	if errors.Is(err, ErrVersionConflict) {
		s.log.WithField("user_id", c.UserID).Warn("⚠️ Conflit d'écriture panier")
		return models.Cart{}, utils.NewRetryableConflict("Panier modifié entre-temps, réessayez", err)
	}
	if err != nil {
		return models.Cart{}, utils.NewInternalError("Erreur sauvegarde panier", err)
	}
	return saved, nil
}
