package cart

import (
	"context"
	"errors"

	"cedra_storefront/internal/models"
)

// ErrVersionConflict le panier a été modifié par une autre requête depuis sa lecture
var ErrVersionConflict = errors.New("panier modifié entre-temps")

// Store un document panier par utilisateur, sauvegardé avec contrôle de version optimiste.
// Get d'un panier absent retourne un panier vide de version 0.
// Save n'écrit que si la version stockée est égale à cart.Version, et retourne le panier en version+1.
type Store interface {
	Get(ctx context.Context, userID string) (models.Cart, error)
	Save(ctx context.Context, cart models.Cart) (models.Cart, error)
}

func emptyCart(userID string) models.Cart {
	return models.Cart{UserID: userID, Items: []models.CartItem{}}
}
