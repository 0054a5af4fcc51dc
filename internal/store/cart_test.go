package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
	"github.com/vladislavdragonenkov/shopfront/internal/store"
)

// fakeGateway маршрутизирует вызовы хранилищ в настраиваемый обработчик
// и считает обращения к сети.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []string
	handler func(method, path string, body any) (string, error)
}

func (g *fakeGateway) do(method, path string, body, out any) error {
	g.mu.Lock()
	g.calls = append(g.calls, method+" "+path)
	handler := g.handler
	g.mu.Unlock()

	if handler == nil {
		return nil
	}
	raw, err := handler(method, path, body)
	if err != nil {
		return err
	}
	if out != nil && raw != "" {
		return json.Unmarshal([]byte(raw), out)
	}
	return nil
}

func (g *fakeGateway) Get(ctx context.Context, path string, out any) error {
	return g.do("GET", path, nil, out)
}

func (g *fakeGateway) Post(ctx context.Context, path string, body, out any) error {
	return g.do("POST", path, body, out)
}

func (g *fakeGateway) Patch(ctx context.Context, path string, body, out any) error {
	return g.do("PATCH", path, body, out)
}

func (g *fakeGateway) Delete(ctx context.Context, path string, out any) error {
	return g.do("DELETE", path, nil, out)
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func cartJSON(t *testing.T, cart domain.Cart) string {
	t.Helper()
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"id":           item.ID,
			"variant_id":   item.VariantID,
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"unit_price":   item.UnitPrice,
			"total_price":  item.TotalPrice,
		})
	}
	raw, err := json.Marshal(map[string]any{
		"items":          items,
		"total_items":    cart.TotalItems,
		"total_price":    cart.TotalPrice,
		"promo_code":     cart.PromoCode,
		"discount_type":  cart.DiscountType,
		"discount_value": cart.DiscountValue,
	})
	require.NoError(t, err)
	return string(raw)
}

func transientFailure() error {
	return domain.NewFailure(domain.FailureTransient, "", errors.New("status 503"))
}

// Сценарий сумм: добавление варианта 101 количеством 2 по 2500.00 даёт
// (2, "5000.00"), последующее удаление возвращает (0, "0.00").
func TestCartStore_Totals(t *testing.T) {
	serverCart := domain.Cart{
		Items: []domain.CartItem{{
			ID:         "item-1",
			VariantID:  "101",
			Quantity:   2,
			UnitPrice:  "2500.00",
			TotalPrice: "5000.00",
		}},
		TotalItems: 2,
		TotalPrice: "5000.00",
	}
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		switch {
		case method == "POST" && path == "/cart/items":
			return cartJSON(t, serverCart), nil
		case method == "DELETE" && path == "/cart/items/item-1":
			return cartJSON(t, domain.Cart{TotalPrice: "0.00"}), nil
		}
		t.Fatalf("unexpected call %s %s", method, path)
		return "", nil
	}}
	cart := store.NewCartStore(gw, nil, nil)

	result := cart.AddItem(context.Background(), store.NewItem{
		VariantID: "101",
		Quantity:  2,
		UnitPrice: "2500.00",
	})
	require.True(t, result.Success)

	state := cart.Cart()
	require.Equal(t, 2, state.TotalItems)
	require.Equal(t, "5000.00", state.TotalPrice)

	result = cart.RemoveItem(context.Background(), "item-1")
	require.True(t, result.Success)

	state = cart.Cart()
	require.Equal(t, 0, state.TotalItems)
	require.Equal(t, "0.00", state.TotalPrice)
}

// До ответа сервера позиция видна с временным идентификатором и
// пересчитанными суммами; коммит подменяет её серверным состоянием.
func TestCartStore_OptimisticInsert(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		close(entered)
		<-release
		return cartJSON(t, domain.Cart{
			Items:      []domain.CartItem{{ID: "item-9", VariantID: "101", Quantity: 1, UnitPrice: "100.00", TotalPrice: "100.00"}},
			TotalItems: 1,
			TotalPrice: "100.00",
		}), nil
	}}
	cart := store.NewCartStore(gw, nil, nil)

	done := make(chan store.Result, 1)
	go func() {
		done <- cart.AddItem(context.Background(), store.NewItem{VariantID: "101", Quantity: 1, UnitPrice: "100.00"})
	}()
	<-entered

	optimistic := cart.Cart()
	require.Len(t, optimistic.Items, 1)
	require.True(t, strings.HasPrefix(optimistic.Items[0].ID, "tmp-"))
	require.Equal(t, 1, optimistic.TotalItems)
	require.Equal(t, "100.00", optimistic.TotalPrice)
	require.True(t, cart.Loading())

	close(release)
	require.True(t, (<-done).Success)

	committed := cart.Cart()
	require.Equal(t, "item-9", committed.Items[0].ID)
	require.False(t, cart.Loading())
}

// Отклонённая мутация возвращает корзину байт-в-байт к состоянию до вызова.
func TestCartStore_RollbackRestoresSnapshot(t *testing.T) {
	seeded := domain.Cart{
		Items: []domain.CartItem{{
			ID: "item-1", VariantID: "101", ProductName: "Кроссовки",
			Quantity: 2, UnitPrice: "2500.00", TotalPrice: "5000.00",
		}},
		TotalItems: 2,
		TotalPrice: "5000.00",
		PromoCode:  "SALE10",
	}
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		if method == "GET" {
			return cartJSON(t, seeded), nil
		}
		return "", transientFailure()
	}}
	cart := store.NewCartStore(gw, nil, nil)
	require.NoError(t, cart.Fetch(context.Background()))

	before := cart.Cart()
	result := cart.AddItem(context.Background(), store.NewItem{VariantID: "202", Quantity: 1, UnitPrice: "900.00"})

	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
	require.Equal(t, before, cart.Cart())
	require.Equal(t, result.Error, cart.Err())
}

// Количество вне [1, 99] отклоняется локально, сеть не затрагивается.
func TestCartStore_QuantityRejectedLocally(t *testing.T) {
	gw := &fakeGateway{}
	cart := store.NewCartStore(gw, nil, nil)

	for _, quantity := range []int{0, -1, 100} {
		result := cart.UpdateQuantity(context.Background(), "item-1", quantity)
		require.False(t, result.Success)
		require.Equal(t, "Количество товара должно быть от 1 до 99", result.Error)

		result = cart.AddItem(context.Background(), store.NewItem{VariantID: "101", Quantity: quantity, UnitPrice: "10.00"})
		require.False(t, result.Success)
	}

	require.Equal(t, 0, gw.callCount())
}

func TestCartStore_ItemNotFound(t *testing.T) {
	gw := &fakeGateway{}
	cart := store.NewCartStore(gw, nil, nil)

	result := cart.UpdateQuantity(context.Background(), "ghost", 2)
	require.False(t, result.Success)
	require.Equal(t, "Товар не найден в корзине", result.Error)
	require.Equal(t, 0, gw.callCount())
}

// Побеждает последний выданный ответ: поздний откат более ранней мутации
// не затирает уже закоммиченный результат более поздней.
func TestCartStore_LastResponseWins(t *testing.T) {
	seeded := domain.Cart{
		Items:      []domain.CartItem{{ID: "item-1", VariantID: "101", Quantity: 1, UnitPrice: "100.00", TotalPrice: "100.00"}},
		TotalItems: 1,
		TotalPrice: "100.00",
	}

	firstEntered := make(chan struct{})
	firstRelease := make(chan struct{})
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) (string, error) {
		switch method {
		case "GET":
			return cartJSON(t, seeded), nil
		case "PATCH":
			quantity := body.(map[string]any)["quantity"].(int)
			if quantity == 5 {
				// Первая мутация зависает и в итоге проваливается.
				close(firstEntered)
				<-firstRelease
				return "", transientFailure()
			}
			return cartJSON(t, domain.Cart{
				Items:      []domain.CartItem{{ID: "item-1", VariantID: "101", Quantity: 7, UnitPrice: "100.00", TotalPrice: "700.00"}},
				TotalItems: 7,
				TotalPrice: "700.00",
			}), nil
		}
		return "", nil
	}

	cart := store.NewCartStore(gw, nil, nil)
	require.NoError(t, cart.Fetch(context.Background()))

	slow := make(chan store.Result, 1)
	go func() {
		slow <- cart.UpdateQuantity(context.Background(), "item-1", 5)
	}()
	<-firstEntered

	// Вторая мутация успевает закоммититься, пока первая в полёте.
	require.True(t, cart.UpdateQuantity(context.Background(), "item-1", 7).Success)
	require.Equal(t, 7, cart.Cart().TotalItems)

	close(firstRelease)
	require.False(t, (<-slow).Success)

	// Откат первой мутации отброшен: состояние осталось за второй.
	state := cart.Cart()
	require.Equal(t, 7, state.Items[0].Quantity)
	require.Equal(t, "700.00", state.TotalPrice)
}

// Промокод применяется без оптимистичной фазы: до ответа сервера корзина
// не меняется, после — содержит серверную скидку.
func TestCartStore_ApplyPromo(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		if method == "GET" {
			return cartJSON(t, domain.Cart{TotalPrice: "1000.00"}), nil
		}
		close(entered)
		<-release
		return cartJSON(t, domain.Cart{
			TotalPrice:    "900.00",
			PromoCode:     "SALE10",
			DiscountType:  "percent",
			DiscountValue: "10",
		}), nil
	}}
	cart := store.NewCartStore(gw, nil, nil)
	require.NoError(t, cart.Fetch(context.Background()))

	done := make(chan store.Result, 1)
	go func() {
		done <- cart.ApplyPromo(context.Background(), "SALE10")
	}()
	<-entered
	require.Empty(t, cart.Cart().PromoCode)

	close(release)
	require.True(t, (<-done).Success)

	state := cart.Cart()
	require.Equal(t, "SALE10", state.PromoCode)
	require.Equal(t, "900.00", state.TotalPrice)
}

func TestCartStore_Reset(t *testing.T) {
	gw := &fakeGateway{handler: func(method, path string, body any) (string, error) {
		return cartJSON(t, domain.Cart{
			Items:      []domain.CartItem{{ID: "item-1", VariantID: "101", Quantity: 1, UnitPrice: "10.00", TotalPrice: "10.00"}},
			TotalItems: 1,
			TotalPrice: "10.00",
		}), nil
	}}
	cart := store.NewCartStore(gw, nil, nil)
	require.NoError(t, cart.Fetch(context.Background()))
	require.NotEmpty(t, cart.Cart().Items)

	cart.Reset()

	require.Empty(t, cart.Cart().Items)
	require.Equal(t, 0, cart.Cart().TotalItems)
}
