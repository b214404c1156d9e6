package wishlist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cedra_storefront/internal/models"

	"github.com/gocql/gocql"
)

const (
	cqlSelectWishlist = `SELECT product_id, added_at FROM wishlist WHERE user_id = ?`
	cqlSelectEntry    = `SELECT product_id FROM wishlist WHERE user_id = ? AND product_id = ?`
	cqlInsertEntryLWT = `INSERT INTO wishlist (user_id, product_id, added_at) VALUES (?, ?, ?) IF NOT EXISTS`
	cqlDeleteEntryLWT = `DELETE FROM wishlist WHERE user_id = ? AND product_id = ? IF EXISTS`
)

// ScyllaStore table wishlist(user_id, product_id, added_at).
// Les écritures sont des transactions légères (LWT) : un doublon est détecté par la base.
type ScyllaStore struct {
	session *gocql.Session
	now     func() time.Time
}

func NewScyllaStore(session *gocql.Session) *ScyllaStore {
	return &ScyllaStore{session: session, now: time.Now}
}

func (s *ScyllaStore) List(ctx context.Context, userID string) ([]string, error) {
	iter := s.session.Query(cqlSelectWishlist, userID).WithContext(ctx).Iter()
	var (
		entries []models.WishlistItem
		e       = models.WishlistItem{UserID: userID}
	)
	for iter.Scan(&e.ProductID, &e.AddedAt) {
		entries = append(entries, e)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture wishlist: %w", err)
	}

	return orderedIDs(entries), nil
}

// orderedIDs trie par date d'ajout (la clé de clustering est product_id)
func orderedIDs(entries []models.WishlistItem) []string {
	slices.SortStableFunc(entries, func(a, b models.WishlistItem) int { return a.AddedAt.Compare(b.AddedAt) })
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	return ids
}

func (s *ScyllaStore) Contains(ctx context.Context, userID, productID string) (bool, error) {
	var id string
	err := s.session.Query(cqlSelectEntry, userID, productID).WithContext(ctx).Scan(&id)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lecture wishlist: %w", err)
	}
	return true, nil
}

func (s *ScyllaStore) Add(ctx context.Context, userID, productID string) (bool, error) {
	applied, err := s.session.Query(cqlInsertEntryLWT, userID, productID, s.now()).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("ajout wishlist: %w", err)
	}
	return applied, nil
}

func (s *ScyllaStore) Remove(ctx context.Context, userID, productID string) (bool, error) {
	applied, err := s.session.Query(cqlDeleteEntryLWT, userID, productID).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("suppression wishlist: %w", err)
	}
	return applied, nil
}
