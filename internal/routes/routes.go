package routes

import (
	"net/http"
	"time"

	"cedra_storefront/internal/handlers/product"
	"cedra_storefront/internal/handlers/user"
	"cedra_storefront/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps tout ce dont le routeur a besoin, construit par app.Build
type Deps struct {
	Products    *product.Handler
	Cart        *user.CartHandler
	Wishlist    *user.WishlistHandler
	RateLimiter *middleware.RateLimiter

	JWTSecret       []byte
	CORSOrigins     []string
	CartRateLimit   int
	SearchRateLimit int

	// Backends noms des stockages actifs, exposés par /health
	Backends map[string]string

	Log *logrus.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(corsMiddleware(d.CORSOrigins))
	r.Use(middleware.RequestLogger(d.Log), middleware.ErrorHandler(d.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backends": d.Backends})
	})

	api := r.Group("/api")

	auth := middleware.AuthRequired(d.JWTSecret, d.Log)

	// --- Catalogue (lecture publique) ---
	products := api.Group("/products")
	{
		products.GET("/search", d.RateLimiter.SearchRateLimit(d.SearchRateLimit), d.Products.SearchProducts)
		products.GET("/filters", d.Products.GetProductFilters)
		products.GET("/:id", d.Products.GetProduct)
		products.POST("", auth, d.Products.CreateProduct)
	}

	// --- Panier ---
	cart := api.Group("/cart", auth)
	{
		cart.GET("", d.Cart.GetCart)
		cart.GET("/ws", d.Cart.CartWebSocket)

		mutations := cart.Group("", d.RateLimiter.CartRateLimit(d.CartRateLimit))
		mutations.POST("", d.Cart.AddToCart)
		mutations.DELETE("", d.Cart.ClearCart)
		mutations.PUT("/:productId", d.Cart.UpdateCartQuantity)
		mutations.DELETE("/:productId", d.Cart.RemoveFromCart)
	}

	// --- Wishlist ---
	wishlist := api.Group("/wishlist", auth)
	{
		wishlist.GET("", d.Wishlist.GetWishlist)
		wishlist.POST("", d.Wishlist.AddToWishlist)
		wishlist.DELETE("/:productId", d.Wishlist.RemoveFromWishlist)
		wishlist.POST("/:productId/toggle", d.Wishlist.ToggleWishlist)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
