package user

import (
	"net/http"

	"cedra_storefront/internal/cart"
	"cedra_storefront/internal/middleware"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	carts    *cart.Service
	notifier cart.Notifier
	log      *logrus.Logger
}

// NewCartHandler notifier peut être nil (pas de websocket)
func NewCartHandler(carts *cart.Service, notifier cart.Notifier, log *logrus.Logger) *CartHandler {
	return &CartHandler{carts: carts, notifier: notifier, log: log}
}

type addToCartInput struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type updateCartInput struct {
	Quantity *int `json:"quantity"`
}

// GetCart GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	current, err := h.carts.Get(c.Request.Context(), userID)
	respondCart(c, current, err)
}

// AddToCart POST /api/cart  {productId, quantity?}
func (h *CartHandler) AddToCart(c *gin.Context) {
	var input addToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(utils.NewValidationError("Données invalides"))
		return
	}
	qty := 1
	if input.Quantity != nil {
		qty = *input.Quantity
	}

	userID := c.GetString(middleware.ContextUserID)
	updated, err := h.carts.Add(c.Request.Context(), userID, input.ProductID, qty)
	respondCart(c, updated, err)
}

// UpdateCartQuantity PUT /api/cart/:productId  {quantity} ; 0 = suppression
func (h *CartHandler) UpdateCartQuantity(c *gin.Context) {
	var input updateCartInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity == nil {
		_ = c.Error(utils.NewValidationError("Quantité invalide"))
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	updated, err := h.carts.Update(c.Request.Context(), userID, c.Param("productId"), *input.Quantity)
	respondCart(c, updated, err)
}

// RemoveFromCart DELETE /api/cart/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	updated, err := h.carts.Remove(c.Request.Context(), userID, c.Param("productId"))
	respondCart(c, updated, err)
}

// ClearCart DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	updated, err := h.carts.Clear(c.Request.Context(), userID)
	respondCart(c, updated, err)
}

func respondCart(c *gin.Context, current models.Cart, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.NewCartView(current))
}
