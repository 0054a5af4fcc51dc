package domain

import "time"

// Границы количества одной позиции; значения вне диапазона отклоняются
// локально, без сетевого вызова.
const (
	QuantityMin = 1
	QuantityMax = 99
)

// CartItem представляет одну позицию корзины.
type CartItem struct {
	// ID назначается сервером; у оптимистично вставленных позиций временный
	// клиентский идентификатор до подтверждения.
	ID string
	// VariantID идентифицирует покупаемый SKU; неизменен после создания.
	VariantID string
	// Денормализованные данные товара для отображения без дополнительных запросов.
	ProductName string
	VariantName string
	Image       string
	// Quantity — количество единиц, в пределах [QuantityMin, QuantityMax].
	Quantity int
	// UnitPrice и TotalPrice — десятичные строки, см. money.go.
	UnitPrice  string
	TotalPrice string
	// AddedAt фиксирует момент добавления позиции.
	AddedAt time.Time
}

// Cart агрегирует содержимое корзины и производные суммы.
type Cart struct {
	Items []CartItem
	// TotalItems == Σ Quantity, TotalPrice == Σ TotalPrice позиций —
	// инвариант действует всегда, кроме момента применения мутации.
	TotalItems int
	TotalPrice string
	// Промокод и скидка приходят только от сервера; клиент их не вычисляет.
	PromoCode     string
	DiscountType  string
	DiscountValue string
}

// Clone возвращает глубокую копию корзины для снимков отката.
func (c Cart) Clone() Cart {
	dup := c
	dup.Items = make([]CartItem, len(c.Items))
	copy(dup.Items, c.Items)
	return dup
}

// Recalculate восстанавливает производные суммы из позиций.
func (c *Cart) Recalculate() error {
	total := 0
	var minor int64
	for _, item := range c.Items {
		total += item.Quantity
		m, err := ParseDecimal(item.TotalPrice)
		if err != nil {
			return err
		}
		minor += m
	}
	c.TotalItems = total
	c.TotalPrice = FormatMinor(minor)
	return nil
}

// ValidateInvariants проверяет согласованность корзины и возвращает список замечаний.
func (c *Cart) ValidateInvariants() []error {
	var errs []error

	items := 0
	var minor int64
	for _, item := range c.Items {
		if item.Quantity < QuantityMin || item.Quantity > QuantityMax {
			errs = append(errs, ErrQuantityRange)
		}
		if item.VariantID == "" {
			errs = append(errs, ErrVariantRequired)
		}
		items += item.Quantity
		m, err := ParseDecimal(item.TotalPrice)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		minor += m
	}

	if c.TotalItems != items {
		errs = append(errs, ErrTotalItemsMismatch)
	}
	if c.TotalPrice != FormatMinor(minor) {
		errs = append(errs, ErrTotalPriceMismatch)
	}

	return errs
}
