package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestCache_JSON(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got map[string]int
	ok, err := c.GetJSON(ctx, "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	ok, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, got)

	// entrée corrompue supprimée
	require.NoError(t, mr.Set("bad", "{pas du json"))
	ok, err = c.GetJSON(ctx, "bad", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("bad"))

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
	require.NoError(t, c.Delete(ctx))
}

func TestCache_RateLimitWindow(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := c.IncrementRateLimit(ctx, "search_requests:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, time.Minute, c.RateLimitTTL(ctx, "search_requests:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	n, err := c.IncrementRateLimit(ctx, "search_requests:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, time.Duration(0), c.RateLimitTTL(ctx, "inconnu"))
}

type countingFinder struct {
	product models.Product
	calls   int
}

func (f *countingFinder) FindByID(ctx context.Context, id string) (models.Product, error) {
	f.calls++
	if id != f.product.ID {
		return models.Product{}, catalog.ErrProductNotFound
	}
	return f.product, nil
}

func TestProductReader_ReadThrough(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	log := logrus.New()
	log.Out = io.Discard

	finder := &countingFinder{product: models.Product{ID: "p1", Name: "Casque", Price: 79.9}}
	r := NewProductReader(finder, c, log)

	for range 3 {
		p, err := r.FindByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Casque", p.Name)
	}
	assert.Equal(t, 1, finder.calls)
	assert.Equal(t, ProductCacheTTL, mr.TTL(ProductKey("p1")))

	_, err := r.FindByID(ctx, "p2")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.False(t, mr.Exists(ProductKey("p2")))

	assert.Equal(t, 2, finder.calls)
}
