package domain

import (
	"encoding/json"
	"time"
)

const OrderStatusProcessing = "Processing"

// Order is a placed checkout. Items is the cart snapshot as sent by the client.
type Order struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	TotalPrice float64         `json:"total_price"`
	Items      json.RawMessage `json:"items"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
