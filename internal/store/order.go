package store

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
	"github.com/vladislavdragonenkov/shopfront/internal/metrics"
)

// OrderStore ведёт оформление заказа и кэш последнего созданного заказа.
// Заказ создаётся из текущего содержимого корзины; после подтверждения
// сервером корзина опустошается.
type OrderStore struct {
	mu      sync.RWMutex
	current *domain.Order
	lastErr string
	busy    bool

	cart    *CartStore
	api     Gateway
	metrics *metrics.GatewayMetrics
	logger  *log.Entry
}

// NewOrderStore создаёт хранилище заказов поверх конвейера и корзины.
func NewOrderStore(api Gateway, cart *CartStore, m *metrics.GatewayMetrics, logger *log.Entry) *OrderStore {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &OrderStore{api: api, cart: cart, metrics: m, logger: logger}
}

// Current возвращает последний созданный заказ (для страницы подтверждения).
func (s *OrderStore) Current() *domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	dup := *s.current
	dup.Items = make([]domain.OrderItem, len(s.current.Items))
	copy(dup.Items, s.current.Items)
	return &dup
}

// Loading сообщает, идёт ли оформление.
func (s *OrderStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// Err возвращает сообщение последней неудачной операции.
func (s *OrderStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Reset сбрасывает состояние оформления (выход из аккаунта).
func (s *OrderStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.lastErr = ""
	s.busy = false
}

type createOrderRequest struct {
	Contact        contactPayload `json:"contact"`
	Address        addressPayload `json:"address"`
	DeliveryMethod string         `json:"delivery_method"`
	PromoCode      string         `json:"promo_code,omitempty"`
}

// Create оформляет заказ из текущей корзины. Пустая корзина отклоняется
// локально, без сетевого вызова. Успешное оформление опустошает корзину.
func (s *OrderStore) Create(ctx context.Context, draft domain.OrderDraft) Result {
	cart := s.cart.Cart()
	if len(cart.Items) == 0 {
		s.setErr(domain.ErrEmptyCart)
		return failed(domain.ErrEmptyCart)
	}

	s.mu.Lock()
	s.busy = true
	s.lastErr = ""
	s.mu.Unlock()

	body := createOrderRequest{
		Contact: contactPayload{
			Name:  draft.Contact.Name,
			Email: draft.Contact.Email,
			Phone: draft.Contact.Phone,
		},
		Address: addressPayload{
			City:    draft.Address.City,
			Street:  draft.Address.Street,
			Zip:     draft.Address.Zip,
			Comment: draft.Address.Comment,
		},
		DeliveryMethod: draft.DeliveryMethod,
		PromoCode:      cart.PromoCode,
	}

	var payload orderPayload
	err := s.api.Post(ctx, "/orders", body, &payload)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		s.lastErr = userMessage(err)
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.RecordMutationRolledBack()
		}
		s.logger.WithError(err).Warn("оформление заказа не удалось")
		return failed(err)
	}

	order := payload.toDomain()
	s.current = &order
	s.mu.Unlock()

	// Сервер уже переложил позиции в заказ; локальная корзина очищается.
	s.cart.Reset()
	if s.metrics != nil {
		s.metrics.RecordMutationCommitted()
	}
	s.logger.WithField("order", order.Number).Info("заказ оформлен")
	return ok()
}

// Get загружает заказ по идентификатору.
func (s *OrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	var payload orderPayload
	if err := s.api.Get(ctx, "/orders/"+id, &payload); err != nil {
		return nil, err
	}
	order := payload.toDomain()
	return &order, nil
}

// List загружает страницу истории заказов с необязательным фильтром статуса.
func (s *OrderStore) List(ctx context.Context, page int, status domain.OrderStatus) (*domain.OrderPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if status != "" {
		query.Set("status", string(status))
	}
	path := "/orders"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload orderListPayload
	if err := s.api.Get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.toDomain(), nil
}

func (s *OrderStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = userMessage(err)
}
