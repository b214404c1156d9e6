package cart

import (
	"context"
	"testing"
	"time"

	"cedra_storefront/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, testLogger()), mr
}

func TestRedisStore_GetMissingCartIsEmpty(t *testing.T) {
	s, _ := newRedisStore(t)

	c, err := s.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.Equal(t, int64(0), c.Version)
}

func TestRedisStore_SaveAndConflict(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	c, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	c.Items = append(c.Items, models.CartItem{ProductID: "p1", Name: "A", Price: 100, Quantity: 2})

	saved, err := s.Save(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)
	assert.True(t, mr.Exists(Key("u1")))
	// pas d'expiration sur le panier
	assert.Equal(t, time.Duration(0), mr.TTL(Key("u1")))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved.Items, got.Items)
	assert.Equal(t, int64(1), got.Version)

	// c porte toujours la version 0
	_, err = s.Save(ctx, c)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestRedisStore_SubscribeReceivesPublications(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	events, cancel, err := s.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer cancel()

	_, err = s.Save(ctx, models.Cart{UserID: "u1", Items: []models.CartItem{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventUpdated, ev)
	case <-time.After(2 * time.Second):
		t.Fatal("aucune notification reçue")
	}
}
