package state

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"cedra_storefront/internal/client"
	"cedra_storefront/internal/models"
)

const (
	defaultSortBy = "newest"
	defaultLimit  = 20
)

// Filters filtres de recherche côté client ; les champs vides ne sont pas envoyés
type Filters struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Rating   *float64
	InStock  *bool
	SortBy   string
	Page     int
	Limit    int
}

func DefaultFilters() Filters {
	return Filters{SortBy: defaultSortBy, Page: 1, Limit: defaultLimit}
}

// Merge applique les champs renseignés de patch par-dessus f
func (f Filters) Merge(patch Filters) Filters {
	if patch.Category != "" {
		f.Category = patch.Category
	}
	if patch.Brand != "" {
		f.Brand = patch.Brand
	}
	if patch.MinPrice != nil {
		f.MinPrice = patch.MinPrice
	}
	if patch.MaxPrice != nil {
		f.MaxPrice = patch.MaxPrice
	}
	if patch.Rating != nil {
		f.Rating = patch.Rating
	}
	if patch.InStock != nil {
		f.InStock = patch.InStock
	}
	if patch.SortBy != "" {
		f.SortBy = patch.SortBy
	}
	if patch.Page > 0 {
		f.Page = patch.Page
	}
	if patch.Limit > 0 {
		f.Limit = patch.Limit
	}
	return f
}

// FilterField filtre effaçable individuellement
type FilterField string

const (
	FilterCategory FilterField = "category"
	FilterBrand    FilterField = "brand"
	FilterMinPrice FilterField = "minPrice"
	FilterMaxPrice FilterField = "maxPrice"
	FilterRating   FilterField = "rating"
	FilterInStock  FilterField = "inStock"
)

// Without retire les filtres nommés ; tri et pagination sont inchangés
func (f Filters) Without(fields ...FilterField) Filters {
	for _, field := range fields {
		switch field {
		case FilterCategory:
			f.Category = ""
		case FilterBrand:
			f.Brand = ""
		case FilterMinPrice:
			f.MinPrice = nil
		case FilterMaxPrice:
			f.MaxPrice = nil
		case FilterRating:
			f.Rating = nil
		case FilterInStock:
			f.InStock = nil
		}
	}
	return f
}

func (f Filters) values(query string) url.Values {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Brand != "" {
		v.Set("brand", f.Brand)
	}
	setFloat(v, "minPrice", f.MinPrice)
	setFloat(v, "maxPrice", f.MaxPrice)
	setFloat(v, "rating", f.Rating)
	if f.InStock != nil {
		v.Set("inStock", strconv.FormatBool(*f.InStock))
	}
	if f.SortBy != "" {
		v.Set("sortBy", f.SortBy)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

func setFloat(v url.Values, key string, f *float64) {
	if f != nil {
		v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}

type SearchService struct {
	api     client.API
	concern *Concern[models.SearchResult]

	mu      sync.RWMutex
	query   string
	filters Filters
}

func NewSearchService(api client.API) *SearchService {
	return &SearchService{api: api, concern: newConcern[models.SearchResult](), filters: DefaultFilters()}
}

func (s *SearchService) State() Snapshot[models.SearchResult] {
	return s.concern.Snapshot()
}

func (s *SearchService) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *SearchService) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetFilters fusionne sans lancer de recherche
func (s *SearchService) SetFilters(patch Filters) {
	s.mu.Lock()
	s.filters = s.filters.Merge(patch)
	s.mu.Unlock()
}

// UnsetFilters retire des filtres et revient à la première page, sans lancer de recherche
func (s *SearchService) UnsetFilters(fields ...FilterField) {
	s.mu.Lock()
	s.filters = s.filters.Without(fields...)
	s.filters.Page = 1
	s.mu.Unlock()
}

// ResetFilters rétablit les filtres par défaut
func (s *SearchService) ResetFilters() {
	s.mu.Lock()
	s.filters = DefaultFilters()
	s.mu.Unlock()
}

// Search fusionne patch dans les filtres courants puis interroge le serveur
func (s *SearchService) Search(ctx context.Context, query string, patch Filters) error {
	s.mu.Lock()
	s.query = query
	s.filters = s.filters.Merge(patch)
	params := s.filters.values(query)
	s.mu.Unlock()

	seq := s.concern.begin()
	result, err := s.api.Search(ctx, params)
	s.concern.finish(seq, result, err)
	return err
}

// Clear vide requête, résultats et erreur ; les filtres sont conservés
func (s *SearchService) Clear() {
	s.concern.reset()
	s.mu.Lock()
	s.query = ""
	s.mu.Unlock()
}
