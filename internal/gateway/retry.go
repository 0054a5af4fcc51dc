package gateway

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/shopfront/internal/domain"
)

// RetryConfig — конфигурация повторов по временным отказам шлюза.
type RetryConfig struct {
	// MaxAttempts — всего попыток, включая первую.
	MaxAttempts int
	// BaseDelay — пауза перед второй попыткой; далее удваивается.
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию: три попытки
// с паузами 1s и 2s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    8 * time.Second,
	}
}

// Delay возвращает паузу после неудачной попытки attempt (с единицы):
// BaseDelay * 2^(attempt-1), с ограничением сверху.
func (c RetryConfig) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := c.BaseDelay << (attempt - 1)
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// ShouldRetry — чистая функция решения о повторе. Повторяются только
// временные отказы; 401 принадлежит координатору ротации, ошибки валидации —
// вызывающему коду.
func (c RetryConfig) ShouldRetry(kind domain.FailureKind, attempt int) bool {
	return kind == domain.FailureTransient && attempt < c.MaxAttempts
}

// sleepBackoff ждёт паузу, уважая отмену контекста.
func sleepBackoff(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
