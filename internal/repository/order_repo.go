package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"kova-store/internal/domain"
)

// OrderRepository defines the persistence contract for orders.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

// PgOrderRepository implements OrderRepository on top of pgxpool.
type PgOrderRepository struct {
	pool dbtx
}

func NewPgOrderRepository(pool *pgxpool.Pool) *PgOrderRepository {
	return &PgOrderRepository{pool: pool}
}

func (r *PgOrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	const query = `
		INSERT INTO orders (user_id, total_price, items, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		order.UserID,
		order.TotalPrice,
		[]byte(order.Items),
		order.Status,
		order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (r *PgOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const query = `
		SELECT id, user_id, total_price, items, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			o     domain.Order
			items []byte
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &items, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Items = items
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
