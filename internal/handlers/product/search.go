package product

import (
	"net/http"

	"cedra_storefront/internal/catalog"
	"cedra_storefront/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	searcher *catalog.Searcher
	limits   catalog.Limits
}

func NewHandler(searcher *catalog.Searcher, limits catalog.Limits) *Handler {
	return &Handler{searcher: searcher, limits: limits}
}

// SearchProducts GET /api/products/search
func (h *Handler) SearchProducts(c *gin.Context) {
	params := catalog.ParseSearchParams(c.Request.URL.Query(), h.limits)

	result, err := h.searcher.Search(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProductFilters GET /api/products/filters
func (h *Handler) GetProductFilters(c *gin.Context) {
	filters, err := h.searcher.Filters(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, filters)
}

// GetProduct GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.searcher.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProduct POST /api/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var input catalog.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(utils.NewValidationError("Données invalides"))
		return
	}

	p, err := h.searcher.Create(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
