package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kova-store/internal/domain"
	"kova-store/internal/service"
)

// ProductHandler expone el catalogo.
type ProductHandler struct {
	logger  *zap.Logger
	catalog *service.CatalogService
}

func NewProductHandler(logger *zap.Logger, catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{logger: logger, catalog: catalog}
}

// ListProducts maneja GET /products.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Search:     c.Query("search"),
		Collection: c.Query("collection"),
		Category:   c.Query("category"),
	}
	products, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct maneja GET /products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("get product failed", zap.Error(err), zap.Int64("product_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct maneja POST /products (solo admin).
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name       string   `json:"name"`
		Price      float64  `json:"price"`
		Category   string   `json:"category"`
		Image      string   `json:"image"`
		Sizes      []string `json:"sizes"`
		Collection *string  `json:"collection"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	input := service.ProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Image:    req.Image,
		Sizes:    req.Sizes,
	}
	if req.Collection != nil {
		input.Collection = *req.Collection
	}

	product, err := h.catalog.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProduct) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product"})
			return
		}
		h.logger.Error("create product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// DeleteProduct maneja DELETE /products/:id (solo admin).
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("delete product failed", zap.Error(err), zap.Int64("product_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return 0, false
	}
	return id, true
}
