package catalog

import (
	"context"

	"cedra_storefront/internal/models"

	"github.com/sirupsen/logrus"
)

// IndexedStore recherche d'abord dans l'index (Elasticsearch) et retombe sur le stockage principal
// si l'index est indisponible. Les fiches produit sont toujours lues depuis le stockage principal.
type IndexedStore struct {
	primary Store
	index   Store
	log     *logrus.Entry
}

func NewIndexedStore(primary, index Store, log *logrus.Logger) *IndexedStore {
	return &IndexedStore{primary: primary, index: index, log: log.WithField("component", "catalog_index")}
}

// Find sert les pages depuis l'index ; les lectures complètes (limit <= 0) vont au stockage principal
func (s *IndexedStore) Find(ctx context.Context, f Filter, sort Sort, skip, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return s.primary.Find(ctx, f, sort, skip, limit)
	}
	products, err := s.index.Find(ctx, f, sort, skip, limit)
	if err == nil {
		return products, nil
	}
	s.log.WithError(err).Warn("⚠️ Index de recherche indisponible, repli sur le stockage principal")
	return s.primary.Find(ctx, f, sort, skip, limit)
}

func (s *IndexedStore) Count(ctx context.Context, f Filter) (int64, error) {
	n, err := s.index.Count(ctx, f)
	if err == nil {
		return n, nil
	}
	s.log.WithError(err).Warn("⚠️ Index de recherche indisponible, repli sur le stockage principal")
	return s.primary.Count(ctx, f)
}

func (s *IndexedStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	return s.primary.FindByID(ctx, id)
}

// Insert écrit dans le stockage principal puis indexe ; un échec d'indexation est seulement journalisé
func (s *IndexedStore) Insert(ctx context.Context, products ...models.Product) error {
	if err := s.primary.Insert(ctx, products...); err != nil {
		return err
	}
	if err := s.index.Insert(ctx, products...); err != nil {
		s.log.WithError(err).Warn("⚠️ Indexation Elasticsearch échouée")
	}
	return nil
}

// Reindex recopie tout le stockage principal dans l'index
func (s *IndexedStore) Reindex(ctx context.Context) (int, error) {
	products, err := s.primary.Find(ctx, Filter{}, SortNewest, 0, 0)
	if err != nil {
		return 0, err
	}
	if err := s.index.Insert(ctx, products...); err != nil {
		return 0, err
	}
	s.log.WithField("count", len(products)).Info("✅ Produits indexés dans Elasticsearch")
	return len(products), nil
}
