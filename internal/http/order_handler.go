package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kova-store/internal/domain"
	"kova-store/internal/service"
)

// OrderHandler maneja la creacion y consulta de ordenes del usuario autenticado.
type OrderHandler struct {
	logger *zap.Logger
	orders *service.OrderService
}

func NewOrderHandler(logger *zap.Logger, orders *service.OrderService) *OrderHandler {
	return &OrderHandler{logger: logger, orders: orders}
}

// CreateOrder maneja POST /orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req struct {
		Items      json.RawMessage `json:"items"`
		TotalPrice float64         `json:"total_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid order request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	order, err := h.orders.Place(c.Request.Context(), user, req.Items, req.TotalPrice)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order"})
			return
		}
		h.logger.Error("create order failed", zap.Error(err), zap.Int64("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order_id": order.ID})
}

// ListMyOrders maneja GET /orders/my.
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	orders, err := h.orders.ListMine(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("list orders failed", zap.Error(err), zap.Int64("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}
