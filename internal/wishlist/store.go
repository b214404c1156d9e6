package wishlist

import "context"

// Store ensemble de références produit par utilisateur.
// Add et Remove sont atomiques côté stockage et indiquent si l'ensemble a changé.
type Store interface {
	List(ctx context.Context, userID string) ([]string, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
	Add(ctx context.Context, userID, productID string) (bool, error)
	Remove(ctx context.Context, userID, productID string) (bool, error)
}
