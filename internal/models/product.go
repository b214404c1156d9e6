package models

import "time"

type Product struct {
	ID          string    `json:"id" bson:"_id" db:"id"`
	Name        string    `json:"name" bson:"name" db:"name"`
	Description string    `json:"description" bson:"description" db:"description"`
	Price       float64   `json:"price" bson:"price" db:"price"`
	Category    string    `json:"category" bson:"category" db:"category"`
	Brand       string    `json:"brand" bson:"brand" db:"brand"`
	Rating      float64   `json:"rating" bson:"rating" db:"rating"`
	NumReviews  int       `json:"numReviews" bson:"numReviews" db:"num_reviews"`
	InStock     bool      `json:"inStock" bson:"inStock" db:"in_stock"`
	ImageURL    string    `json:"imageUrl" bson:"imageUrl" db:"image_url"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// PriceRange bornes min/max des prix du catalogue
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ProductFilters décrit les filtres disponibles pour l'écran de recherche
type ProductFilters struct {
	Categories  []string     `json:"categories"`
	Brands      []string     `json:"brands"`
	PriceRange  PriceRange   `json:"priceRange"`
	SortOptions []SortOption `json:"sortOptions"`
}
