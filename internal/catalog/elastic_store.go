package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cedra_storefront/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// au-delà, Elasticsearch refuse la pagination from/size (index.max_result_window)
const elasticMaxWindow = 10000

var elasticMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id": map[string]any{"type": "keyword"},
			"name": map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword"}},
			},
			"description": map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword", "ignore_above": 8191}},
			},
			"price":      map[string]any{"type": "double"},
			"category":   map[string]any{"type": "keyword"},
			"brand":      map[string]any{"type": "keyword"},
			"rating":     map[string]any{"type": "double"},
			"numReviews": map[string]any{"type": "integer"},
			"inStock":    map[string]any{"type": "boolean"},
			"imageUrl":   map[string]any{"type": "keyword", "index": false},
			"createdAt":  map[string]any{"type": "date"},
			"updatedAt":  map[string]any{"type": "date"},
		},
	},
}

// ElasticStore index de recherche Elasticsearch des produits
type ElasticStore struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticStore(client *elasticsearch.Client, index string) *ElasticStore {
	return &ElasticStore{client: client, index: index}
}

// EnsureIndex crée l'index avec son mapping s'il n'existe pas
func (s *ElasticStore) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("elastic exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(elasticMapping)
	if err != nil {
		return err
	}
	res, err = esapi.IndicesCreateRequest{Index: s.index, Body: bytes.NewReader(body)}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("elastic create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elastic create index: %s", res.String())
	}
	return nil
}

// ErrResultWindow la page demandée dépasse la fenêtre from/size de l'index
var ErrResultWindow = errors.New("fenêtre de résultats elasticsearch dépassée")

// elasticWindow taille de page à demander ; limit <= 0 lit tout ce que la fenêtre permet
func elasticWindow(skip, limit int) (int, error) {
	if skip < 0 || skip >= elasticMaxWindow {
		return 0, fmt.Errorf("%w: from=%d", ErrResultWindow, skip)
	}
	if limit <= 0 {
		return elasticMaxWindow - skip, nil
	}
	if limit > elasticMaxWindow-skip {
		return 0, fmt.Errorf("%w: from=%d size=%d", ErrResultWindow, skip, limit)
	}
	return limit, nil
}

func (s *ElasticStore) Find(ctx context.Context, f Filter, sort Sort, skip, limit int) ([]models.Product, error) {
	limit, err := elasticWindow(skip, limit)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"query": elasticQuery(f),
		"sort":  elasticSort(sort),
		"from":  skip,
		"size":  limit,
	})
	if err != nil {
		return nil, err
	}

	res, err := esapi.SearchRequest{Index: []string{s.index}, Body: bytes.NewReader(body)}.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("elastic search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic search: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("elastic décodage: %w", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}

func (s *ElasticStore) Count(ctx context.Context, f Filter) (int64, error) {
	body, err := json.Marshal(map[string]any{"query": elasticQuery(f)})
	if err != nil {
		return 0, err
	}

	res, err := esapi.CountRequest{Index: []string{s.index}, Body: bytes.NewReader(body)}.Do(ctx, s.client)
	if err != nil {
		return 0, fmt.Errorf("elastic count: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("elastic count: %s", res.String())
	}

	var r struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, fmt.Errorf("elastic décodage: %w", err)
	}
	return r.Count, nil
}

func (s *ElasticStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	res, err := esapi.GetRequest{Index: s.index, DocumentID: id}.Do(ctx, s.client)
	if err != nil {
		return models.Product{}, fmt.Errorf("elastic get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return models.Product{}, ErrProductNotFound
	}
	if res.IsError() {
		return models.Product{}, fmt.Errorf("elastic get: %s", res.String())
	}

	var r struct {
		Source models.Product `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return models.Product{}, fmt.Errorf("elastic décodage: %w", err)
	}
	return r.Source, nil
}

// Insert indexe en bulk, les documents sont visibles immédiatement (refresh=true)
func (s *ElasticStore) Insert(ctx context.Context, products ...models.Product) error {
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		meta := map[string]any{"index": map[string]any{"_index": s.index, "_id": p.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(p); err != nil {
			return err
		}
	}

	res, err := esapi.BulkRequest{Body: &buf, Refresh: "true"}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("elastic bulk: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elastic bulk: %s", res.String())
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("elastic décodage: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("elastic bulk: certains documents ont été rejetés")
	}
	return nil
}

func elasticQuery(f Filter) map[string]any {
	var filters []any

	if term := strings.TrimSpace(f.Term); term != "" {
		pattern := "*" + escapeWildcard(term) + "*"
		filters = append(filters, map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"wildcard": map[string]any{"name.raw": map[string]any{"value": pattern, "case_insensitive": true}}},
					map[string]any{"wildcard": map[string]any{"description.raw": map[string]any{"value": pattern, "case_insensitive": true}}},
				},
				"minimum_should_match": 1,
			},
		})
	}
	if f.Category != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category": f.Category}})
	}
	if f.Brand != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"brand": f.Brand}})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		rng := map[string]any{}
		if f.MinPrice != nil {
			rng["gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			rng["lte"] = *f.MaxPrice
		}
		filters = append(filters, map[string]any{"range": map[string]any{"price": rng}})
	}
	if f.MinRating != nil {
		filters = append(filters, map[string]any{"range": map[string]any{"rating": map[string]any{"gte": *f.MinRating}}})
	}
	if f.InStock != nil {
		filters = append(filters, map[string]any{"term": map[string]any{"inStock": *f.InStock}})
	}

	if len(filters) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	return map[string]any{"bool": map[string]any{"filter": filters}}
}

func elasticSort(s Sort) []any {
	var primary map[string]any
	switch s {
	case SortPriceAsc:
		primary = map[string]any{"price": "asc"}
	case SortPriceDesc:
		primary = map[string]any{"price": "desc"}
	case SortName:
		primary = map[string]any{"name.raw": "asc"}
	case SortRating:
		primary = map[string]any{"rating": "desc"}
	default:
		primary = map[string]any{"createdAt": "desc"}
	}
	return []any{primary, map[string]any{"id": "asc"}}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}
