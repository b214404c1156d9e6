package catalog

import (
	"context"
	"fmt"

	"cedra_storefront/internal/models"

	"github.com/gocql/gocql"
)

const (
	cqlProductColumns = `product_id, name, description, price, category, brand, rating, num_reviews, in_stock, image_url, created_at, updated_at`

	cqlSelectProducts           = `SELECT ` + cqlProductColumns + ` FROM products`
	cqlSelectProductsByCategory = `SELECT ` + cqlProductColumns + ` FROM products WHERE category = ? ALLOW FILTERING`
	cqlSelectProductByID        = `SELECT ` + cqlProductColumns + ` FROM products WHERE product_id = ?`
	cqlInsertProduct            = `INSERT INTO products (` + cqlProductColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// ScyllaStore catalogue ScyllaDB. CQL ne sait pas filtrer par sous-chaîne ni trier librement :
// on lit la partition utile puis filtre, trie et pagine en mémoire.
type ScyllaStore struct {
	session *gocql.Session
}

func NewScyllaStore(session *gocql.Session) *ScyllaStore {
	return &ScyllaStore{session: session}
}

func (s *ScyllaStore) scan(ctx context.Context, f Filter) ([]models.Product, error) {
	var q *gocql.Query
	if f.Category != "" {
		q = s.session.Query(cqlSelectProductsByCategory, f.Category)
	} else {
		q = s.session.Query(cqlSelectProducts)
	}
	iter := q.WithContext(ctx).Iter()

	var products []models.Product
	for {
		p, ok := scanProduct(iter)
		if !ok {
			break
		}
		if f.Match(p) {
			products = append(products, p)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("scylla lecture produits: %w", err)
	}
	return products, nil
}

func scanProduct(iter *gocql.Iter) (models.Product, bool) {
	var (
		p  models.Product
		id gocql.UUID
	)
	ok := iter.Scan(&id, &p.Name, &p.Description, &p.Price, &p.Category, &p.Brand,
		&p.Rating, &p.NumReviews, &p.InStock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	p.ID = id.String()
	return p, ok
}

func (s *ScyllaStore) Find(ctx context.Context, f Filter, sort Sort, skip, limit int) ([]models.Product, error) {
	products, err := s.scan(ctx, f)
	if err != nil {
		return nil, err
	}
	return Apply(products, Filter{}, sort, skip, limit), nil
}

func (s *ScyllaStore) Count(ctx context.Context, f Filter) (int64, error) {
	products, err := s.scan(ctx, f)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

func (s *ScyllaStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	uid, err := gocql.ParseUUID(id)
	if err != nil {
		return models.Product{}, ErrProductNotFound
	}

	iter := s.session.Query(cqlSelectProductByID, uid).WithContext(ctx).Iter()
	p, ok := scanProduct(iter)
	if err := iter.Close(); err != nil {
		return models.Product{}, fmt.Errorf("scylla lecture produit: %w", err)
	}
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *ScyllaStore) Insert(ctx context.Context, products ...models.Product) error {
	for _, p := range products {
		uid, err := gocql.ParseUUID(p.ID)
		if err != nil {
			return fmt.Errorf("id produit %q: %w", p.ID, err)
		}
		err = s.session.Query(cqlInsertProduct,
			uid, p.Name, p.Description, p.Price, p.Category, p.Brand,
			p.Rating, p.NumReviews, p.InStock, p.ImageURL, p.CreatedAt, p.UpdatedAt,
		).WithContext(ctx).Exec()
		if err != nil {
			return fmt.Errorf("scylla insertion produit %s: %w", p.ID, err)
		}
	}
	return nil
}
