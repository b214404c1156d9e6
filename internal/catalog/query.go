package catalog

import (
	"context"
	"errors"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// SearchParams paramètres de recherche déjà validés
type SearchParams struct {
	Filter Filter
	Sort   Sort
	Page   int
	Limit  int
}

type Limits struct {
	Default int
	Max     int
}

// ParseSearchParams lit la query string. Les valeurs illisibles ne font jamais échouer la requête :
// filtres ignorés, page/limit remplacées par les défauts.
func ParseSearchParams(q url.Values, limits Limits) SearchParams {
	if limits.Default < 1 {
		limits.Default = DefaultLimit
	}
	if limits.Max < limits.Default {
		limits.Max = MaxLimit
	}

	f := Filter{
		Term:      strings.TrimSpace(q.Get("q")),
		Category:  strings.TrimSpace(q.Get("category")),
		Brand:     strings.TrimSpace(q.Get("brand")),
		MinPrice:  parseFloat(q.Get("minPrice")),
		MaxPrice:  parseFloat(q.Get("maxPrice")),
		MinRating: parseFloat(q.Get("rating")),
		InStock:   parseBool(q.Get("inStock")),
	}

	page, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(strings.TrimSpace(q.Get("limit")))
	if err != nil || limit < 1 {
		limit = limits.Default
	}
	if limit > limits.Max {
		limit = limits.Max
	}

	return SearchParams{
		Filter: f,
		Sort:   ParseSort(q.Get("sortBy")),
		Page:   page,
		Limit:  limit,
	}
}

func parseFloat(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseBool(raw string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

// TotalPages = ceil(total / limit)
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Searcher construit les requêtes catalogue et assemble les pages de résultats
type Searcher struct {
	store Store
	log   *logrus.Entry
}

func NewSearcher(store Store, log *logrus.Logger) *Searcher {
	return &Searcher{store: store, log: log.WithField("component", "catalog")}
}

func (s *Searcher) Search(ctx context.Context, p SearchParams) (models.SearchResult, error) {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	total, err := s.store.Count(ctx, p.Filter)
	if err != nil {
		s.log.WithError(err).Error("❌ Erreur comptage catalogue")
		return models.SearchResult{}, utils.NewInternalError("erreur recherche catalogue", err)
	}

	result := models.SearchResult{
		Items:      []models.Product{},
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}

	// au-delà de la dernière page : liste vide, sans calculer un décalage qui déborderait
	if p.Page > result.TotalPages {
		return result, nil
	}
	skip := (p.Page - 1) * p.Limit

	items, err := s.store.Find(ctx, p.Filter, p.Sort, skip, p.Limit)
	if err != nil {
		s.log.WithError(err).Error("❌ Erreur lecture catalogue")
		return models.SearchResult{}, utils.NewInternalError("erreur recherche catalogue", err)
	}
	if items != nil {
		result.Items = items
	}
	return result, nil
}

// Product retourne une fiche produit
func (s *Searcher) Product(ctx context.Context, rawID string) (models.Product, error) {
	id, err := utils.ParseID(rawID, "ID produit")
	if err != nil {
		return models.Product{}, err
	}
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, translateFindErr(err)
	}
	return p, nil
}

// Filters liste catégories, marques et bornes de prix du catalogue
func (s *Searcher) Filters(ctx context.Context) (models.ProductFilters, error) {
	products, err := s.store.Find(ctx, Filter{}, SortNewest, 0, 0)
	if err != nil {
		return models.ProductFilters{}, utils.NewInternalError("erreur lecture catalogue", err)
	}

	out := models.ProductFilters{
		Categories:  []string{},
		Brands:      []string{},
		SortOptions: SortOptions(),
	}
	for i, p := range products {
		if !slices.Contains(out.Categories, p.Category) && p.Category != "" {
			out.Categories = append(out.Categories, p.Category)
		}
		if !slices.Contains(out.Brands, p.Brand) && p.Brand != "" {
			out.Brands = append(out.Brands, p.Brand)
		}
		if i == 0 || p.Price < out.PriceRange.Min {
			out.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > out.PriceRange.Max {
			out.PriceRange.Max = p.Price
		}
	}
	slices.Sort(out.Categories)
	slices.Sort(out.Brands)
	return out, nil
}

func SortOptions() []models.SortOption {
	return []models.SortOption{
		{Value: string(SortNewest), Label: "Plus récents"},
		{Value: string(SortPriceAsc), Label: "Prix croissant"},
		{Value: string(SortPriceDesc), Label: "Prix décroissant"},
		{Value: string(SortName), Label: "Nom"},
		{Value: string(SortRating), Label: "Mieux notés"},
	}
}

// ResolveProduct lookup utilisé par le panier et la wishlist
func ResolveProduct(ctx context.Context, finder ProductFinder, id string) (models.Product, error) {
	p, err := finder.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, translateFindErr(err)
	}
	return p, nil
}

func translateFindErr(err error) error {
	if errors.Is(err, ErrProductNotFound) {
		return utils.NewNotFoundError("Produit introuvable")
	}
	return utils.NewInternalError("erreur lecture produit", err)
}
