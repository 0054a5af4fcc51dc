package domain

import "errors"

var (
	// Ошибка оформления заказа из пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// Ошибка количества вне диапазона [QuantityMin, QuantityMax].
	ErrQuantityRange = errors.New("quantity out of range")
	// Ошибка отсутствующего идентификатора варианта товара.
	ErrVariantRequired = errors.New("variant_id is required")
	// Ошибка, если позиция не найдена в корзине.
	ErrItemNotFound = errors.New("cart item not found")
	// Ошибка расхождения счётчика позиций с суммой количеств.
	ErrTotalItemsMismatch = errors.New("total items does not match items sum")
	// Ошибка расхождения суммы корзины с суммой позиций.
	ErrTotalPriceMismatch = errors.New("total price does not match items sum")
	// ErrNoRefreshToken возвращается, когда ротировать нечего: refresh-токен
	// отсутствует или повреждён.
	ErrNoRefreshToken = errors.New("refresh token is missing or corrupted")
	// ErrSessionExpired сигнализирует о невосстановимой сессии; требуется
	// повторный вход.
	ErrSessionExpired = errors.New("session expired")
)

// IsSessionFatal проверяет, требует ли ошибка принудительного выхода.
func IsSessionFatal(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNoRefreshToken) || KindOf(err) == FailureSession
}
