package state

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"cedra_storefront/internal/app"
	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/client"
	"cedra_storefront/internal/config"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "state_test_secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	api  *client.HTTPClient
	demo []models.Product
}

func newEnv(t *testing.T) env {
	t.Helper()
	log := logrus.New()
	log.Out = io.Discard

	cfg := &config.Config{
		GinMode:            gin.TestMode,
		JWTSecret:          testSecret,
		CatalogBackend:     config.BackendMemory,
		CatalogSeed:        true,
		CartBackend:        config.BackendMemory,
		WishlistBackend:    config.BackendMemory,
		SearchDefaultLimit: 20,
		SearchMaxLimit:     100,
		RateLimitWindow:    time.Minute,
	}
	application, err := app.Build(context.Background(), cfg, nil, log)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Router())
	t.Cleanup(srv.Close)

	return env{api: client.New(srv.URL, srv.Client()), demo: catalog.DemoProducts(time.Now())}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(userID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return tok
}

func TestSession_SignInLoadsServerState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// état serveur préexistant pour user-1
	e.api.SetToken(token(t, "user-1"))
	_, err := e.api.AddToCart(ctx, e.demo[0].ID, 2)
	require.NoError(t, err)
	_, err = e.api.AddToWishlist(ctx, e.demo[1].ID)
	require.NoError(t, err)
	e.api.SetToken("")

	s := NewSession(e.api)
	assert.False(t, s.Ready())

	require.NoError(t, s.SignIn(ctx, token(t, "user-1")))
	assert.True(t, s.Ready())
	assert.Equal(t, 2, s.Cart.Count())
	assert.Equal(t, "$2199.98", s.Cart.FormattedTotal())
	assert.Equal(t, StatusSuccess, s.Cart.State().Status)
	assert.Equal(t, 1, s.Wishlist.Count())
	assert.True(t, s.Wishlist.Contains(e.demo[1].ID))

	s.SignOut()
	assert.False(t, s.Ready())
	assert.Equal(t, 0, s.Cart.Count())
	assert.Equal(t, 0, s.Wishlist.Count())
	assert.Equal(t, StatusIdle, s.Cart.State().Status)

	// après déconnexion, les appels sont anonymes
	err = s.Cart.Sync(ctx)
	assert.True(t, utils.IsKind(err, utils.KindAuth))
}

func TestSession_SignInFailureIsNotReady(t *testing.T) {
	e := newEnv(t)
	s := NewSession(e.api)

	err := s.SignIn(context.Background(), "token-invalide")
	require.Error(t, err)
	assert.False(t, s.Ready())
}

func TestCartService_RefreshOnMutation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewSession(e.api)
	require.NoError(t, s.SignIn(ctx, token(t, "user-2")))

	require.NoError(t, s.Cart.Add(ctx, e.demo[3].ID, 2))
	require.NoError(t, s.Cart.Add(ctx, e.demo[6].ID, 1))
	assert.Equal(t, 3, s.Cart.Count())
	assert.Equal(t, "199.97", s.Cart.Total().StringFixed(2))

	// erreur : le miroir reste intact, le message est exposé
	err := s.Cart.Add(ctx, e.demo[2].ID, 1)
	assert.True(t, utils.IsKind(err, utils.KindOutOfStock))
	st := s.Cart.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "Produit en rupture de stock", st.Error)
	assert.Len(t, st.Data.Items, 2)

	require.NoError(t, s.Cart.Update(ctx, e.demo[3].ID, 5))
	assert.Equal(t, 6, s.Cart.Count())
	assert.Empty(t, s.Cart.State().Error)

	require.NoError(t, s.Cart.Remove(ctx, e.demo[6].ID))
	assert.Equal(t, 5, s.Cart.Count())

	require.NoError(t, s.Cart.Clear(ctx))
	assert.Equal(t, 0, s.Cart.Count())
	assert.Equal(t, "$0.00", s.Cart.FormattedTotal())
}

func TestWishlistService_Toggle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewSession(e.api)
	require.NoError(t, s.SignIn(ctx, token(t, "user-3")))

	id := e.demo[4].ID
	present, err := s.Wishlist.Toggle(ctx, id)
	require.NoError(t, err)
	assert.True(t, present)
	assert.True(t, s.Wishlist.Contains(id))

	present, err = s.Wishlist.Toggle(ctx, id)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, 0, s.Wishlist.Count())

	// les erreurs d'une préoccupation n'affectent pas les autres
	require.NoError(t, s.Cart.Add(ctx, e.demo[0].ID, 1))
	err = s.Wishlist.Remove(ctx, id)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
	assert.Equal(t, StatusError, s.Wishlist.State().Status)
	assert.Equal(t, StatusSuccess, s.Cart.State().Status)
	assert.Equal(t, 1, s.Cart.Count())
}

func TestSearchService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := NewSearchService(e.api)

	assert.Equal(t, DefaultFilters(), s.Filters())
	assert.Equal(t, StatusIdle, s.State().Status)

	require.NoError(t, s.Search(ctx, "", Filters{}))
	assert.Len(t, s.State().Data.Items, 8)

	minPrice := 100.0
	require.NoError(t, s.Search(ctx, "", Filters{MinPrice: &minPrice, SortBy: "price_asc", Limit: 3}))
	res := s.State().Data
	assert.Equal(t, int64(6), res.Total)
	require.Len(t, res.Items, 3)
	assert.Equal(t, 129.99, res.Items[0].Price)

	// les filtres précédents sont conservés
	require.NoError(t, s.Search(ctx, "", Filters{Page: 2}))
	res = s.State().Data
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 999.0, res.Items[0].Price)

	inStock := true
	s.SetFilters(Filters{InStock: &inStock})
	assert.Equal(t, &inStock, s.Filters().InStock)

	require.NoError(t, s.Search(ctx, "macbook", Filters{Page: 1}))
	assert.Equal(t, "macbook", s.Query())
	require.Len(t, s.State().Data.Items, 1)

	s.Clear()
	assert.Empty(t, s.Query())
	assert.Empty(t, s.State().Data.Items)
	assert.Equal(t, StatusIdle, s.State().Status)
	assert.Equal(t, 3, s.Filters().Limit)
}

func TestFilters_Merge(t *testing.T) {
	maxPrice := 50.0
	f := DefaultFilters().Merge(Filters{Category: "Audio", MaxPrice: &maxPrice})
	assert.Equal(t, "Audio", f.Category)
	assert.Equal(t, "newest", f.SortBy)
	assert.Equal(t, 20, f.Limit)

	f = f.Merge(Filters{Brand: "Sony"})
	assert.Equal(t, "Audio", f.Category)
	assert.Equal(t, &maxPrice, f.MaxPrice)

	v := f.values("casque")
	assert.Equal(t, "casque", v.Get("q"))
	assert.Equal(t, "50", v.Get("maxPrice"))
	assert.Equal(t, "1", v.Get("page"))
	assert.Empty(t, v.Get("minPrice"))
}

func TestFilters_Without(t *testing.T) {
	minPrice, rating, inStock := 10.0, 4.0, true
	f := DefaultFilters().Merge(Filters{Category: "Audio", Brand: "Sony", MinPrice: &minPrice, Rating: &rating, InStock: &inStock, Page: 3})

	f = f.Without(FilterCategory, FilterMinPrice, FilterInStock)
	assert.Empty(t, f.Category)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.InStock)
	assert.Equal(t, "Sony", f.Brand)
	assert.Equal(t, &rating, f.Rating)
	assert.Equal(t, 3, f.Page)

	v := f.values("")
	assert.Empty(t, v.Get("category"))
	assert.Empty(t, v.Get("inStock"))
	assert.Equal(t, "Sony", v.Get("brand"))
}

func TestSearchService_FiltersCanBeRemoved(t *testing.T) {
	ctx := context.Background()
	s := NewSearchService(newEnv(t).api)

	require.NoError(t, s.Search(ctx, "", Filters{Category: "Electronics", Page: 2, Limit: 2}))
	assert.Equal(t, int64(3), s.State().Data.Total)
	assert.Equal(t, "Electronics", s.Filters().Category)

	s.UnsetFilters(FilterCategory)
	assert.Empty(t, s.Filters().Category)
	assert.Equal(t, 1, s.Filters().Page)

	require.NoError(t, s.Search(ctx, "", Filters{}))
	assert.Equal(t, int64(8), s.State().Data.Total)

	maxPrice := 100.0
	s.SetFilters(Filters{Brand: "Sony", MaxPrice: &maxPrice, SortBy: "price_asc", Limit: 5})
	s.ResetFilters()
	assert.Equal(t, DefaultFilters(), s.Filters())
}

func TestConcern_DiscardsStaleResponses(t *testing.T) {
	c := newConcern[int]()

	first := c.begin()
	second := c.begin()

	assert.True(t, c.finish(second, 2, nil))
	assert.False(t, c.finish(first, 1, nil))
	assert.Equal(t, 2, c.Snapshot().Data)

	pending := c.begin()
	c.reset()
	assert.False(t, c.finish(pending, 3, nil))
	assert.Equal(t, Snapshot[int]{Status: StatusIdle}, c.Snapshot())
}
