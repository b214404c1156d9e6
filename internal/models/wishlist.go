package models

import "time"

type WishlistItem struct {
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

// Wishlist liste résolue des produits favoris d'un utilisateur
type Wishlist struct {
	UserID string    `json:"userId,omitempty"`
	Items  []Product `json:"items"`
}
