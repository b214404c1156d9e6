package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem garde un instantané du produit (nom, prix, image) pris au premier ajout
type CartItem struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"imageUrl"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Cart document unique par utilisateur. Version est incrémentée à chaque sauvegarde.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	Version   int64      `json:"version"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IndexOf retourne la position de l'item pour ce produit, -1 sinon
func (c Cart) IndexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Count somme des quantités
func (c Cart) Count() int {
	return CartCount(c.Items)
}

// Total somme quantité × prix instantané
func (c Cart) Total() float64 {
	return CartTotal(c.Items).InexactFloat64()
}

func CartCount(items []CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// CartTotal calcule en décimal pour éviter les erreurs d'arrondi des float
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2)
}

// CartView réponse HTTP des opérations panier
type CartView struct {
	Items   []CartItem `json:"items"`
	Count   int        `json:"count"`
	Total   float64    `json:"total"`
	Version int64      `json:"version"`
}

func NewCartView(c Cart) CartView {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartView{
		Items:   items,
		Count:   c.Count(),
		Total:   c.Total(),
		Version: c.Version,
	}
}
