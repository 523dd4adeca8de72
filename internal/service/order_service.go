package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"kova-store/internal/domain"
	"kova-store/internal/repository"
)

var ErrInvalidOrder = errors.New("invalid order")

// OrderService places and lists orders for authenticated users.
type OrderService struct {
	logger *zap.Logger
	orders repository.OrderRepository
	now    func() time.Time
}

func NewOrderService(logger *zap.Logger, orders repository.OrderRepository) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		logger: logger,
		orders: orders,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Place records a new order in the Processing state. items must be a
// non-empty JSON array; its elements are stored as sent.
func (s *OrderService) Place(ctx context.Context, user domain.User, items json.RawMessage, totalPrice float64) (domain.Order, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(items, &list); err != nil || len(list) == 0 {
		return domain.Order{}, ErrInvalidOrder
	}
	if totalPrice < 0 || math.IsNaN(totalPrice) || math.IsInf(totalPrice, 0) {
		return domain.Order{}, ErrInvalidOrder
	}

	order, err := s.orders.Create(ctx, domain.Order{
		UserID:     user.ID,
		TotalPrice: totalPrice,
		Items:      items,
		Status:     domain.OrderStatusProcessing,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", user.ID),
		zap.Float64("total_price", totalPrice),
	)
	return order, nil
}

// ListMine returns the user's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, user domain.User) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, user.ID)
}
