package catalog

import (
	"context"
	"fmt"
	"time"

	"cedra_storefront/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const placeholderImage = "https://via.placeholder.com/300"

// DemoProducts catalogue de démonstration inséré quand la collection est vide
func DemoProducts(now time.Time) []models.Product {
	type demo struct {
		name, description, category, brand string
		price, rating                      float64
		reviews                            int
		inStock                            bool
	}
	demos := []demo{
		{"Samsung Galaxy S21 Ultra", "Smartphone 5G, écran 6.8 pouces, appareil photo 108MP", "Electronics", "Samsung", 1099.99, 4.8, 1200, true},
		{"Apple MacBook Air M1", "Ordinateur portable 13 pouces, puce Apple M1, 8 Go RAM", "Electronics", "Apple", 999.00, 4.9, 850, true},
		{"Sony WH-1000XM4", "Casque sans fil à réduction de bruit", "Audio", "Sony", 279.00, 4.7, 2500, false},
		{"Amazon Echo Dot", "Enceinte connectée avec Alexa", "Smart Home", "Amazon", 49.99, 4.5, 5000, true},
		{"LG C1 OLED TV", "Téléviseur OLED 4K 55 pouces", "Electronics", "LG", 1499.00, 4.9, 700, true},
		{"Dyson V11", "Aspirateur balai sans fil", "Home Appliances", "Dyson", 599.00, 4.6, 1500, true},
		{"Logitech MX Master 3", "Souris sans fil avancée", "Computer Accessories", "Logitech", 99.99, 4.8, 900, true},
		{"Kindle Paperwhite", "Liseuse étanche, écran 6.8 pouces", "Books & Media", "Amazon", 129.99, 4.7, 3000, true},
	}

	products := make([]models.Product, 0, len(demos))
	for i, d := range demos {
		created := now.Add(-time.Duration(len(demos)-i) * time.Hour)
		products = append(products, models.Product{
			ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte("cedra:product:"+d.name)).String(),
			Name:        d.name,
			Description: d.description,
			Price:       d.price,
			Category:    d.category,
			Brand:       d.brand,
			Rating:      d.rating,
			NumReviews:  d.reviews,
			InStock:     d.inStock,
			ImageURL:    placeholderImage,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}
	return products
}

// SeedIfEmpty insère le catalogue de démo si aucun produit n'existe
func SeedIfEmpty(ctx context.Context, store Store, log *logrus.Logger) (bool, error) {
	count, err := store.Count(ctx, Filter{})
	if err != nil {
		return false, fmt.Errorf("comptage catalogue: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	products := DemoProducts(time.Now().UTC().Truncate(time.Millisecond))
	if err := store.Insert(ctx, products...); err != nil {
		return false, fmt.Errorf("insertion catalogue démo: %w", err)
	}
	log.WithField("count", len(products)).Info("🌱 Catalogue de démonstration inséré")
	return true, nil
}
