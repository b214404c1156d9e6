package catalog

import (
	"cmp"
	"slices"
	"strings"

	"cedra_storefront/internal/models"
)

// Filter prédicat de recherche. Les pointeurs nil signifient "filtre absent".
type Filter struct {
	Term      string
	Category  string
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	InStock   *bool
}

// Match applique tous les filtres présents (ET logique)
func (f Filter) Match(p models.Product) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Term)); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

type Sort string

const (
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortName      Sort = "name"
	SortRating    Sort = "rating"
	SortNewest    Sort = "newest"
)

// ParseSort retombe sur newest pour toute valeur inconnue
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortName:
		return SortName
	case SortRating:
		return SortRating
	default:
		return SortNewest
	}
}

// Compare ordonne deux produits ; l'id départage pour une pagination stable
func (s Sort) Compare(a, b models.Product) int {
	var c int
	switch s {
	case SortPriceAsc:
		c = cmp.Compare(a.Price, b.Price)
	case SortPriceDesc:
		c = cmp.Compare(b.Price, a.Price)
	case SortName:
		c = cmp.Compare(a.Name, b.Name)
	case SortRating:
		c = cmp.Compare(b.Rating, a.Rating)
	default:
		c = b.CreatedAt.Compare(a.CreatedAt)
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Apply filtre, trie et découpe en mémoire. limit <= 0 = pas de limite.
func Apply(products []models.Product, f Filter, s Sort, skip, limit int) []models.Product {
	matched := Select(products, f)
	slices.SortFunc(matched, s.Compare)
	return Window(matched, skip, limit)
}

func Select(products []models.Product, f Filter) []models.Product {
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func Window(products []models.Product, skip, limit int) []models.Product {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(products) {
		return []models.Product{}
	}
	end := len(products)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return products[skip:end]
}
