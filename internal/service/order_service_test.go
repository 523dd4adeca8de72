package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kova-store/internal/domain"
)

type mockOrderRepo struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (m *mockOrderRepo) Create(_ context.Context, order domain.Order) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = int64(len(m.orders) + 1)
	m.orders = append(m.orders, order)
	return order, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func TestOrderServicePlaceAndList(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepo{}
	svc := NewOrderService(zap.NewNop(), repo)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	alice := domain.User{ID: 1, Email: "alice@x.com"}
	bob := domain.User{ID: 2, Email: "bob@x.com"}

	first, err := svc.Place(ctx, alice, json.RawMessage(`[{"id":1,"size":"M","qty":1}]`), 5999)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusProcessing, first.Status)
	require.Equal(t, int64(1), first.UserID)

	now = now.Add(time.Hour)
	_, err = svc.Place(ctx, alice, json.RawMessage(`[{"id":2}]`), 2499)
	require.NoError(t, err)
	_, err = svc.Place(ctx, bob, json.RawMessage(`[{"id":3}]`), 10)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, 2499.0, mine[0].TotalPrice)
}

func TestOrderServicePlace_Validation(t *testing.T) {
	svc := NewOrderService(zap.NewNop(), &mockOrderRepo{})
	user := domain.User{ID: 1}
	cases := []struct {
		items string
		total float64
	}{
		{items: `[]`, total: 10},
		{items: `{"id":1}`, total: 10},
		{items: `not json`, total: 10},
		{items: `[{"id":1}]`, total: -1},
	}
	for _, c := range cases {
		_, err := svc.Place(context.Background(), user, json.RawMessage(c.items), c.total)
		require.ErrorIs(t, err, ErrInvalidOrder, "items=%s total=%v", c.items, c.total)
	}
}
