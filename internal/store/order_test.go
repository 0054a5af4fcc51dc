package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
	"github.com/vladislavdragonenkov/shopfront/internal/store"
)

func seededCart(t *testing.T, gw *fakeGateway) *store.CartStore {
	t.Helper()
	base := gw.handler
	gw.handler = func(method, path string, body any) (string, error) {
		if method == "GET" && path == "/cart" {
			return cartJSON(t, domain.Cart{
				Items:      []domain.CartItem{{ID: "item-1", VariantID: "101", Quantity: 2, UnitPrice: "2500.00", TotalPrice: "5000.00"}},
				TotalItems: 2,
				TotalPrice: "5000.00",
			}), nil
		}
		if base == nil {
			return "", nil
		}
		return base(method, path, body)
	}

	cart := store.NewCartStore(gw, nil, nil)
	require.NoError(t, cart.Fetch(context.Background()))
	return cart
}

func sampleDraft() domain.OrderDraft {
	return domain.OrderDraft{
		Contact:        domain.Contact{Name: "Иван Петров", Email: "ivan@example.ru", Phone: "+79990001122"},
		Address:        domain.Address{City: "Москва", Street: "Тверская, 1", Zip: "125009"},
		DeliveryMethod: "courier",
	}
}

// Оформление из пустой корзины отклоняется локально с точным сообщением,
// сетевой вызов не выполняется.
func TestOrderStore_CreateEmptyCart(t *testing.T) {
	gw := &fakeGateway{}
	cart := store.NewCartStore(gw, nil, nil)
	orders := store.NewOrderStore(gw, cart, nil, nil)

	result := orders.Create(context.Background(), sampleDraft())

	require.False(t, result.Success)
	require.Equal(t, "Корзина пуста, невозможно оформить заказ", result.Error)
	require.Equal(t, 0, gw.callCount())
	require.Equal(t, result.Error, orders.Err())
}

func TestOrderStore_Create(t *testing.T) {
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		require.Equal(t, "POST", method)
		require.Equal(t, "/orders", path)
		return `{
			"id": "ord-1",
			"number": "10045",
			"status": "pending",
			"contact": {"name": "Иван Петров", "phone": "+79990001122"},
			"items": [{"variant_id": "101", "quantity": 2, "unit_price": "2500.00", "total_price": "5000.00"}],
			"total": "5000.00"
		}`, nil
	}}
	cart := seededCart(t, gw)
	orders := store.NewOrderStore(gw, cart, nil, nil)

	result := orders.Create(context.Background(), sampleDraft())
	require.True(t, result.Success)

	current := orders.Current()
	require.NotNil(t, current)
	require.Equal(t, "10045", current.Number)
	require.Equal(t, domain.OrderStatusPending, current.Status)
	require.Len(t, current.Items, 1)

	// Позиции переехали в заказ, корзина опустела.
	require.Empty(t, cart.Cart().Items)
	require.False(t, orders.Loading())
}

func TestOrderStore_CreateFailureKeepsCart(t *testing.T) {
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		return "", transientFailure()
	}}
	cart := seededCart(t, gw)
	orders := store.NewOrderStore(gw, cart, nil, nil)

	result := orders.Create(context.Background(), sampleDraft())

	require.False(t, result.Success)
	require.Equal(t, "Не удалось связаться с сервером, попробуйте ещё раз", result.Error)
	require.Nil(t, orders.Current())
	require.Len(t, cart.Cart().Items, 1)
}

func TestOrderStore_Get(t *testing.T) {
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		require.Equal(t, "GET /orders/ord-1", method+" "+path)
		return `{"id": "ord-1", "number": "10045", "status": "shipped"}`, nil
	}}
	orders := store.NewOrderStore(gw, store.NewCartStore(gw, nil, nil), nil, nil)

	order, err := orders.Get(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusShipped, order.Status)
}

func TestOrderStore_List(t *testing.T) {
	var gotPath string
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		gotPath = path
		return `{
			"orders": [{"id": "ord-1", "status": "delivered"}, {"id": "ord-2", "status": "delivered"}],
			"page": 2, "per_page": 10, "total": 12
		}`, nil
	}}
	orders := store.NewOrderStore(gw, store.NewCartStore(gw, nil, nil), nil, nil)

	page, err := orders.List(context.Background(), 2, domain.OrderStatusDelivered)
	require.NoError(t, err)

	require.Equal(t, "/orders?page=2&status=delivered", gotPath)
	require.Len(t, page.Orders, 2)
	require.Equal(t, 12, page.Total)
}

func TestOrderStore_Reset(t *testing.T) {
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		return `{"id": "ord-1"}`, nil
	}}
	cart := seededCart(t, gw)
	orders := store.NewOrderStore(gw, cart, nil, nil)

	require.True(t, orders.Create(context.Background(), sampleDraft()).Success)
	require.NotNil(t, orders.Current())

	orders.Reset()

	require.Nil(t, orders.Current())
	require.Empty(t, orders.Err())
}
