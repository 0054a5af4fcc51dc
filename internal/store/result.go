package store

import (
	"errors"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
)

// Result — исход мутации для слоя интерфейса: флаг успеха и готовое
// сообщение для пользователя. Внутренние ошибки наружу не протекают.
type Result struct {
	Success bool
	Error   string
}

func ok() Result {
	return Result{Success: true}
}

func failed(err error) Result {
	return Result{Error: userMessage(err)}
}

// userMessage переводит классифицированный отказ в сообщение для покупателя.
func userMessage(err error) string {
	var classified *domain.Classified
	if errors.As(err, &classified) && classified.Message != "" {
		return classified.Message
	}

	switch domain.KindOf(err) {
	case domain.FailureTransient:
		return "Не удалось связаться с сервером, попробуйте ещё раз"
	case domain.FailureSession:
		return "Сессия истекла, войдите в аккаунт заново"
	case domain.FailureValidation:
		return "Проверьте правильность заполненных данных"
	case domain.FailureCanceled:
		return "Запрос отменён"
	}

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "Корзина пуста, невозможно оформить заказ"
	case errors.Is(err, domain.ErrQuantityRange):
		return "Количество товара должно быть от 1 до 99"
	case errors.Is(err, domain.ErrItemNotFound):
		return "Товар не найден в корзине"
	}
	return "Что-то пошло не так, попробуйте ещё раз"
}
