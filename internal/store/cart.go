package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
	"github.com/vladislavdragonenkov/shopfront/internal/metrics"
)

// NewItem — данные позиции для оптимистичной вставки: помимо идентификатора
// варианта нужны денормализованные поля товара, чтобы отрисовать строку
// корзины до ответа сервера.
type NewItem struct {
	VariantID   string
	ProductName string
	VariantName string
	Image       string
	Quantity    int
	UnitPrice   string
}

// CartStore хранит локальную копию корзины и применяет мутации оптимистично:
// снимок, мгновенное локальное изменение, сетевой вызов, затем подтверждение
// серверным состоянием или откат снимка. Нумерация мутаций гарантирует, что
// побеждает последний ответ и откат не затирает более поздний коммит.
type CartStore struct {
	mu       sync.RWMutex
	cart     domain.Cart
	inflight int
	lastErr  string

	// seq — последний выданный номер мутации; lastCommitted — номер последней
	// мутации, чей результат применён к состоянию.
	seq           uint64
	lastCommitted uint64

	api     Gateway
	metrics *metrics.GatewayMetrics
	logger  *log.Entry
}

// NewCartStore создаёт пустую корзину поверх конвейера.
func NewCartStore(api Gateway, m *metrics.GatewayMetrics, logger *log.Entry) *CartStore {
	if logger == nil {
		logger = log.New().WithField("component", "cart")
	}
	return &CartStore{api: api, metrics: m, logger: logger}
}

// Cart возвращает копию текущего состояния для отрисовки.
func (s *CartStore) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// Loading сообщает, есть ли незавершённые сетевые вызовы.
func (s *CartStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Err возвращает сообщение последней неудачной мутации.
func (s *CartStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Reset сбрасывает корзину в начальное состояние (выход из аккаунта).
func (s *CartStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = domain.Cart{}
	s.lastErr = ""
	s.lastCommitted = s.seq
}

// Fetch загружает авторитетное состояние корзины с сервера.
func (s *CartStore) Fetch(ctx context.Context) error {
	mySeq := s.begin(func(cart *domain.Cart) {})

	var payload cartPayload
	err := s.api.Get(ctx, "/cart", &payload)
	if err != nil {
		s.finish(mySeq, nil, err)
		return err
	}

	authoritative := payload.toDomain()
	s.finish(mySeq, &authoritative, nil)
	return nil
}

// AddItem оптимистично вставляет позицию и подтверждает её на сервере.
// Временный идентификатор позиции заменяется серверным при коммите.
func (s *CartStore) AddItem(ctx context.Context, item NewItem) Result {
	if item.VariantID == "" {
		return failed(domain.ErrVariantRequired)
	}
	if item.Quantity < domain.QuantityMin || item.Quantity > domain.QuantityMax {
		return failed(domain.ErrQuantityRange)
	}

	unitMinor, err := domain.ParseDecimal(item.UnitPrice)
	if err != nil {
		return failed(err)
	}

	snapshot, mySeq := s.beginWithSnapshot(func(cart *domain.Cart) {
		// Повторное добавление того же варианта укрупняет существующую позицию.
		for i := range cart.Items {
			if cart.Items[i].VariantID == item.VariantID {
				cart.Items[i].Quantity += item.Quantity
				cart.Items[i].TotalPrice = domain.FormatMinor(unitMinor * int64(cart.Items[i].Quantity))
				return
			}
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ID:          "tmp-" + uuid.New().String(),
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			Image:       item.Image,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  domain.FormatMinor(unitMinor * int64(item.Quantity)),
		})
	})

	body := map[string]any{"variant_id": item.VariantID, "quantity": item.Quantity}
	var payload cartPayload
	if err := s.api.Post(ctx, "/cart/items", body, &payload); err != nil {
		s.finish(mySeq, &snapshot, err)
		return failed(err)
	}

	authoritative := payload.toDomain()
	s.finish(mySeq, &authoritative, nil)
	return ok()
}

// UpdateQuantity меняет количество позиции. Значения вне допустимого
// диапазона отклоняются локально, без сетевого вызова.
func (s *CartStore) UpdateQuantity(ctx context.Context, itemID string, quantity int) Result {
	if quantity < domain.QuantityMin || quantity > domain.QuantityMax {
		return failed(domain.ErrQuantityRange)
	}

	found := false
	snapshot, mySeq := s.beginWithSnapshot(func(cart *domain.Cart) {
		for i := range cart.Items {
			if cart.Items[i].ID != itemID {
				continue
			}
			found = true
			cart.Items[i].Quantity = quantity
			if minor, err := domain.ParseDecimal(cart.Items[i].UnitPrice); err == nil {
				cart.Items[i].TotalPrice = domain.FormatMinor(minor * int64(quantity))
			}
			return
		}
	})
	if !found {
		s.finish(mySeq, &snapshot, domain.ErrItemNotFound)
		return failed(domain.ErrItemNotFound)
	}

	var payload cartPayload
	if err := s.api.Patch(ctx, "/cart/items/"+itemID, map[string]any{"quantity": quantity}, &payload); err != nil {
		s.finish(mySeq, &snapshot, err)
		return failed(err)
	}

	authoritative := payload.toDomain()
	s.finish(mySeq, &authoritative, nil)
	return ok()
}

// RemoveItem убирает позицию из корзины.
func (s *CartStore) RemoveItem(ctx context.Context, itemID string) Result {
	found := false
	snapshot, mySeq := s.beginWithSnapshot(func(cart *domain.Cart) {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				found = true
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return
			}
		}
	})
	if !found {
		s.finish(mySeq, &snapshot, domain.ErrItemNotFound)
		return failed(domain.ErrItemNotFound)
	}

	var payload cartPayload
	if err := s.api.Delete(ctx, "/cart/items/"+itemID, &payload); err != nil {
		s.finish(mySeq, &snapshot, err)
		return failed(err)
	}

	authoritative := payload.toDomain()
	s.finish(mySeq, &authoritative, nil)
	return ok()
}

// Clear опустошает корзину целиком.
func (s *CartStore) Clear(ctx context.Context) Result {
	snapshot, mySeq := s.beginWithSnapshot(func(cart *domain.Cart) {
		*cart = domain.Cart{}
	})

	if err := s.api.Delete(ctx, "/cart", nil); err != nil {
		s.finish(mySeq, &snapshot, err)
		return failed(err)
	}

	empty := domain.Cart{}
	s.finish(mySeq, &empty, nil)
	return ok()
}

// ApplyPromo применяет промокод. Оптимистичной фазы нет: размер скидки
// известен только серверу, локально предсказать результат нечем.
func (s *CartStore) ApplyPromo(ctx context.Context, code string) Result {
	mySeq := s.begin(func(cart *domain.Cart) {})

	var payload cartPayload
	if err := s.api.Post(ctx, "/cart/promo", map[string]any{"code": code}, &payload); err != nil {
		s.finish(mySeq, nil, err)
		return failed(err)
	}

	authoritative := payload.toDomain()
	s.finish(mySeq, &authoritative, nil)
	return ok()
}

// RemovePromo снимает применённый промокод.
func (s *CartStore) RemovePromo(ctx context.Context) Result {
	mySeq := s.begin(func(cart *domain.Cart) {})

	var payload cartPayload
	if err := s.api.Delete(ctx, "/cart/promo", &payload); err != nil {
		s.finish(mySeq, nil, err)
		return failed(err)
	}

	authoritative := payload.toDomain()
	s.finish(mySeq, &authoritative, nil)
	return ok()
}

// begin выдаёт номер мутации и применяет локальное изменение без снимка.
func (s *CartStore) begin(apply func(*domain.Cart)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inflight++
	s.lastErr = ""
	apply(&s.cart)
	return s.seq
}

// beginWithSnapshot выдаёт номер мутации, снимает глубокую копию текущего
// состояния и применяет оптимистичное изменение с пересчётом сумм.
func (s *CartStore) beginWithSnapshot(apply func(*domain.Cart)) (domain.Cart, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inflight++
	s.lastErr = ""
	snapshot := s.cart.Clone()
	apply(&s.cart)
	if err := s.cart.Recalculate(); err != nil {
		s.logger.WithError(err).Error("пересчёт корзины после оптимистичного изменения")
	}
	return snapshot, s.seq
}

// finish закрывает мутацию: подтверждает авторитетное состояние или
// откатывает снимок. Устаревшие результаты (номер не новее последнего
// применённого) отбрасываются, чтобы поздний откат не затёр свежий коммит.
func (s *CartStore) finish(mySeq uint64, state *domain.Cart, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if cause != nil {
		s.lastErr = userMessage(cause)
		if state != nil && s.lastCommitted < mySeq {
			s.cart = state.Clone()
		}
		if s.metrics != nil {
			s.metrics.RecordMutationRolledBack()
		}
		s.logger.WithError(cause).WithField("seq", mySeq).Debug("мутация корзины откатилась")
		return
	}

	if state != nil && mySeq > s.lastCommitted {
		s.cart = state.Clone()
		s.lastCommitted = mySeq
	}
	if s.metrics != nil {
		s.metrics.RecordMutationCommitted()
	}
}
