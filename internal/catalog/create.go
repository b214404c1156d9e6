package catalog

import (
	"context"
	"math"
	"strings"
	"time"

	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxRating = 5

// NewProduct fiche saisie à la création ; les champs pointeurs absents prennent leur valeur par défaut
type NewProduct struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Rating      *float64 `json:"rating"`
	NumReviews  *int     `json:"numReviews"`
	InStock     *bool    `json:"inStock"`
}

func (n NewProduct) product(now time.Time) (models.Product, error) {
	p := models.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(n.Name),
		Description: strings.TrimSpace(n.Description),
		Price:       n.Price,
		Category:    strings.TrimSpace(n.Category),
		Brand:       strings.TrimSpace(n.Brand),
		ImageURL:    strings.TrimSpace(n.ImageURL),
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Name == "" || p.Description == "" || p.Category == "" || p.Brand == "" {
		return models.Product{}, utils.NewValidationError("Champs obligatoires : name, description, price, category, brand")
	}
	if p.Price <= 0 || math.IsInf(p.Price, 0) || math.IsNaN(p.Price) {
		return models.Product{}, utils.NewValidationError("Prix invalide")
	}
	if p.ImageURL == "" {
		p.ImageURL = placeholderImage
	}
	if n.Rating != nil {
		if *n.Rating < 0 || *n.Rating > maxRating || math.IsNaN(*n.Rating) {
			return models.Product{}, utils.NewValidationError("Note invalide")
		}
		p.Rating = *n.Rating
	}
	if n.NumReviews != nil {
		if *n.NumReviews < 0 {
			return models.Product{}, utils.NewValidationError("Nombre d'avis invalide")
		}
		p.NumReviews = *n.NumReviews
	}
	if n.InStock != nil {
		p.InStock = *n.InStock
	}
	return p, nil
}

// Create valide puis insère un produit (stockage principal et index)
func (s *Searcher) Create(ctx context.Context, input NewProduct) (models.Product, error) {
	p, err := input.product(time.Now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return models.Product{}, err
	}
	if err := s.store.Insert(ctx, p); err != nil {
		s.log.WithError(err).Error("❌ Erreur création produit")
		return models.Product{}, utils.NewInternalError("erreur création produit", err)
	}
	s.log.WithFields(logrus.Fields{"product_id": p.ID, "category": p.Category}).Info("✅ Produit créé")
	return p, nil
}
