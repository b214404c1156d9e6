package cart

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func product(name string, price float64, inStock bool) models.Product {
	return models.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		InStock:   inStock,
		ImageURL:  "https://img/" + name,
		CreatedAt: time.Now(),
	}
}

type fixture struct {
	svc   *Service
	store *MemoryStore
	a, b  models.Product
	gone  models.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	a := product("A", 100, true)
	b := product("B", 50, true)
	gone := product("Epuisé", 10, false)

	store := NewMemoryStore()
	svc := NewService(store, catalog.NewMemoryStore(a, b, gone), testLogger())
	return fixture{svc: svc, store: store, a: a, b: b, gone: gone}
}

func TestAdd_NewProductCreatesSingleItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Add(ctx, "u1", f.a.ID, 3)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, f.a.ID, c.Items[0].ProductID)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "A", c.Items[0].Name)
	assert.Equal(t, 100.0, c.Items[0].Price)
	assert.Equal(t, int64(1), c.Version)
}

func TestAdd_SameProductMergesQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "u1", f.a.ID, 2)
	require.NoError(t, err)
	c, err := f.svc.Add(ctx, "u1", f.a.ID, 5)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 7, c.Items[0].Quantity)
}

func TestAdd_CountAndTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "u1", f.a.ID, 2)
	require.NoError(t, err)
	c, err := f.svc.Add(ctx, "u1", f.b.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 250.0, c.Total())
}

func TestAdd_KeepsPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "u1", f.a.ID, 1)
	require.NoError(t, err)

	changed := f.a
	changed.Price = 999
	require.NoError(t, f.svc.products.(*catalog.MemoryStore).Insert(ctx, changed))

	c, err := f.svc.Add(ctx, "u1", f.a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, c.Items[0].Price)
	assert.Equal(t, 200.0, c.Total())
}

func TestAdd_OutOfStockLeavesCartUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.svc.Add(ctx, "u1", f.a.ID, 1)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, "u1", f.gone.ID, 1)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindOutOfStock))

	after, err := f.svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Version, after.Version)
}

func TestAdd_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		productID string
		qty       int
		kind      utils.ErrorKind
	}{
		{"id malformé", "pas-un-uuid", 1, utils.KindValidation},
		{"quantité nulle", f.a.ID, 0, utils.KindValidation},
		{"quantité négative", f.a.ID, -2, utils.KindValidation},
		{"produit inconnu", uuid.NewString(), 1, utils.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Add(ctx, "u1", tt.productID, tt.qty)
			require.Error(t, err)
			assert.Equal(t, tt.kind, utils.KindOf(err))
		})
	}

	c, err := f.svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestAdd_QuantityIsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "u1", f.a.ID, math.MaxInt)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = f.svc.Add(ctx, "u1", f.a.ID, MaxQuantity)
	require.NoError(t, err)

	// la fusion ne doit jamais déborder
	_, err = f.svc.Add(ctx, "u1", f.a.ID, 1)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = f.svc.Add(ctx, "u1", f.a.ID, math.MaxInt)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	c, err := f.svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, MaxQuantity, c.Items[0].Quantity)
	assert.Equal(t, MaxQuantity, c.Count())
}

func TestUpdate_QuantityIsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "u1", f.a.ID, 2)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "u1", f.a.ID, MaxQuantity+1)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = f.svc.Update(ctx, "u1", f.a.ID, math.MaxInt)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	c, err := f.svc.Update(ctx, "u1", f.a.ID, MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, c.Items[0].Quantity)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "u1", f.a.ID, 2)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "u1", f.b.ID, 1)
	require.NoError(t, err)

	c, err := f.svc.Update(ctx, "u1", f.a.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[c.IndexOf(f.a.ID)].Quantity)

	c, err = f.svc.Update(ctx, "u1", f.a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, c.IndexOf(f.a.ID))
	require.Len(t, c.Items, 1)

	_, err = f.svc.Update(ctx, "u1", f.a.ID, 1)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, err = f.svc.Update(ctx, "u1", f.b.ID, -1)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestUpdate_OutOfStockCanOnlyDecrease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// le produit passe en rupture après l'ajout
	_, err := f.svc.Add(ctx, "u1", f.a.ID, 3)
	require.NoError(t, err)
	gone := f.a
	gone.InStock = false
	require.NoError(t, f.svc.products.(*catalog.MemoryStore).Insert(ctx, gone))

	_, err = f.svc.Update(ctx, "u1", f.a.ID, 4)
	assert.True(t, utils.IsKind(err, utils.KindOutOfStock))

	c, err := f.svc.Update(ctx, "u1", f.a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity)

	_, err = f.svc.Add(ctx, "u1", f.a.ID, 1)
	assert.True(t, utils.IsKind(err, utils.KindOutOfStock))
}

func TestRemoveAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Remove(ctx, "u1", f.a.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, err = f.svc.Add(ctx, "u1", f.a.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "u1", f.b.ID, 1)
	require.NoError(t, err)

	c, err := f.svc.Remove(ctx, "u1", f.a.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, f.b.ID, c.Items[0].ProductID)

	c, err = f.svc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// vider un panier vide réussit
	c, err = f.svc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "u1", f.a.ID, 1)
	require.NoError(t, err)

	c, err := f.svc.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, int64(0), c.Version)
}

// staleStore simule une écriture concurrente : chaque Save échoue en conflit
type staleStore struct {
	*MemoryStore
	saves int
}

func (s *staleStore) Save(ctx context.Context, c models.Cart) (models.Cart, error) {
	s.saves++
	return models.Cart{}, ErrVersionConflict
}

func TestSave_ConflictIsRetryable(t *testing.T) {
	a := product("A", 100, true)
	store := &staleStore{MemoryStore: NewMemoryStore()}
	svc := NewService(store, catalog.NewMemoryStore(a), testLogger())
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", a.ID, 1)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.Retryable)
	assert.Equal(t, 1, store.saves)

	_, err = svc.Clear(ctx, "u1")
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Equal(t, 1+clearAttempts, store.saves)
}
