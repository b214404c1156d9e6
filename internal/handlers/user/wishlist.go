package user

import (
	"net/http"

	"cedra_storefront/internal/middleware"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"
	"cedra_storefront/internal/wishlist"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	wishlists *wishlist.Service
}

func NewWishlistHandler(wishlists *wishlist.Service) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// GetWishlist GET /api/wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	products, err := h.wishlists.List(c.Request.Context(), userID)
	respondWishlist(c, userID, products, err)
}

// AddToWishlist POST /api/wishlist  {productId}
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(utils.NewValidationError("Données invalides"))
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	products, err := h.wishlists.Add(c.Request.Context(), userID, req.ProductID)
	respondWishlist(c, userID, products, err)
}

// RemoveFromWishlist DELETE /api/wishlist/:productId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	products, err := h.wishlists.Remove(c.Request.Context(), userID, c.Param("productId"))
	respondWishlist(c, userID, products, err)
}

// ToggleWishlist POST /api/wishlist/:productId/toggle
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	products, inWishlist, err := h.wishlists.Toggle(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "items": nonNil(products), "inWishlist": inWishlist})
}

func respondWishlist(c *gin.Context, userID string, products []models.Product, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.Wishlist{UserID: userID, Items: nonNil(products)})
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
