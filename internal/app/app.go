package app

import (
	"context"
	"fmt"

	"cedra_storefront/internal/cache"
	"cedra_storefront/internal/cart"
	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/config"
	"cedra_storefront/internal/database"
	"cedra_storefront/internal/handlers/product"
	"cedra_storefront/internal/handlers/user"
	"cedra_storefront/internal/middleware"
	"cedra_storefront/internal/routes"
	"cedra_storefront/internal/wishlist"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// App services assemblés, exposés pour main et les tests
type App struct {
	Catalog   catalog.Store
	Searcher  *catalog.Searcher
	Carts     *cart.Service
	Wishlists *wishlist.Service
	Deps      routes.Deps
}

// Build choisit les implémentations selon la configuration.
// conns peut être vide (tout en mémoire).
func Build(ctx context.Context, cfg *config.Config, conns *database.Connections, log *logrus.Logger) (*App, error) {
	if conns == nil {
		conns = &database.Connections{}
	}

	primary, err := catalogStore(cfg, conns)
	if err != nil {
		return nil, err
	}

	if cfg.CatalogSeed {
		if _, err := catalog.SeedIfEmpty(ctx, primary, log); err != nil {
			return nil, err
		}
	}

	store := primary
	if conns.Elastic != nil {
		es := catalog.NewElasticStore(conns.Elastic, cfg.Elastic.Index)
		if err := es.EnsureIndex(ctx); err != nil {
			return nil, fmt.Errorf("index Elasticsearch: %w", err)
		}
		indexed := catalog.NewIndexedStore(primary, es, log)
		if _, err := indexed.Reindex(ctx); err != nil {
			log.WithError(err).Warn("⚠️ Réindexation échouée, recherche servie par le stockage principal")
		}
		store = indexed
	}

	// lecture fiche produit : cache Redis si disponible
	var (
		finder  catalog.ProductFinder = store
		counter middleware.Counter
		wlCache wishlist.Cache
	)
	if conns.Redis != nil {
		rc := cache.New(conns.Redis)
		finder = cache.NewProductReader(store, rc, log)
		counter = rc
		wlCache = rc
	}

	carts, notifier, err := cartStore(cfg, conns, log)
	if err != nil {
		return nil, err
	}
	wishlists, err := wishlistStore(cfg, conns)
	if err != nil {
		return nil, err
	}

	searcher := catalog.NewSearcher(store, log)
	cartService := cart.NewService(carts, finder, log)
	wishlistService := wishlist.NewService(wishlists, finder, wlCache, log)

	return &App{
		Catalog:   store,
		Searcher:  searcher,
		Carts:     cartService,
		Wishlists: wishlistService,
		Deps: routes.Deps{
			Products:        product.NewHandler(searcher, catalog.Limits{Default: cfg.SearchDefaultLimit, Max: cfg.SearchMaxLimit}),
			Cart:            user.NewCartHandler(cartService, notifier, log),
			Wishlist:        user.NewWishlistHandler(wishlistService),
			RateLimiter:     middleware.NewRateLimiter(counter, cfg.RateLimitWindow, log),
			JWTSecret:       []byte(cfg.JWTSecret),
			CORSOrigins:     cfg.CORSOrigins,
			CartRateLimit:   cfg.CartRateLimit,
			SearchRateLimit: cfg.SearchRateLimit,
			Backends:        backends(cfg, conns),
			Log:             log,
		},
	}, nil
}

// Router moteur gin avec toutes les routes
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, a.Deps)
	return r
}

func catalogStore(cfg *config.Config, conns *database.Connections) (catalog.Store, error) {
	switch cfg.CatalogBackend {
	case config.BackendScylla:
		session, err := conns.ProductsSession()
		if err != nil {
			return nil, err
		}
		return catalog.NewScyllaStore(session), nil
	case config.BackendMongo:
		return catalog.NewMongoStore(conns.MongoDatabase()), nil
	case config.BackendPostgres:
		return catalog.NewPostgresStore(conns.Postgres), nil
	default:
		return catalog.NewMemoryStore(), nil
	}
}

func cartStore(cfg *config.Config, conns *database.Connections, log *logrus.Logger) (cart.Store, cart.Notifier, error) {
	if cfg.CartBackend == config.BackendRedis {
		if conns.Redis == nil {
			return nil, nil, fmt.Errorf("CART_BACKEND=redis sans connexion Redis")
		}
		s := cart.NewRedisStore(conns.Redis, log)
		return s, s, nil
	}
	s := cart.NewMemoryStore()
	return s, s, nil
}

func wishlistStore(cfg *config.Config, conns *database.Connections) (wishlist.Store, error) {
	switch cfg.WishlistBackend {
	case config.BackendRedis:
		if conns.Redis == nil {
			return nil, fmt.Errorf("WISHLIST_BACKEND=redis sans connexion Redis")
		}
		return wishlist.NewRedisStore(conns.Redis), nil
	case config.BackendScylla:
		session, err := conns.UsersSession()
		if err != nil {
			return nil, err
		}
		return wishlist.NewScyllaStore(session), nil
	default:
		return wishlist.NewMemoryStore(), nil
	}
}

func backends(cfg *config.Config, conns *database.Connections) map[string]string {
	search := cfg.CatalogBackend
	if conns.Elastic != nil {
		search = "elastic"
	}
	return map[string]string{
		"catalog":  cfg.CatalogBackend,
		"search":   search,
		"cart":     cfg.CartBackend,
		"wishlist": cfg.WishlistBackend,
	}
}
