package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cedra_storefront/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sqlProductColumns = `id, name, description, price, category, brand, rating, num_reviews, in_stock, image_url, created_at, updated_at`

// PostgresStore catalogue PostgreSQL, les filtres sont poussés dans la requête SQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Find(ctx context.Context, f Filter, sort Sort, skip, limit int) ([]models.Product, error) {
	query, args := buildFindQuery(f, sort, skip, limit)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres find: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		return nil, fmt.Errorf("postgres scan: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := buildWhere(f)
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres count: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+sqlProductColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("postgres findById: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Product])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("postgres scan: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Insert(ctx context.Context, products ...models.Product) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`INSERT INTO products (`+sqlProductColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Description, p.Price, p.Category, p.Brand,
			p.Rating, p.NumReviews, p.InStock, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres insert: %w", err)
	}
	return nil
}

func buildFindQuery(f Filter, sort Sort, skip, limit int) (string, []any) {
	where, args := buildWhere(f)

	var b strings.Builder
	b.WriteString(`SELECT ` + sqlProductColumns + ` FROM products`)
	b.WriteString(where)
	b.WriteString(` ORDER BY ` + sqlOrderBy(sort))

	args = append(args, skip)
	b.WriteString(` OFFSET $` + strconv.Itoa(len(args)))
	if limit > 0 {
		args = append(args, limit)
		b.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	return b.String(), args
}

// buildWhere produit la clause WHERE paramétrée ($1, $2...) ; chaîne vide sans filtre
func buildWhere(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if term := strings.TrimSpace(f.Term); term != "" {
		p := arg("%" + escapeLike(term) + "%")
		conds = append(conds, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.Brand != "" {
		conds = append(conds, "brand = "+arg(f.Brand))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}
	if f.MinRating != nil {
		conds = append(conds, "rating >= "+arg(*f.MinRating))
	}
	if f.InStock != nil {
		conds = append(conds, "in_stock = "+arg(*f.InStock))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sqlOrderBy(s Sort) string {
	switch s {
	case SortPriceAsc:
		return "price ASC, id ASC"
	case SortPriceDesc:
		return "price DESC, id ASC"
	case SortName:
		return "name ASC, id ASC"
	case SortRating:
		return "rating DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
