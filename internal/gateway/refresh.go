package gateway

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/credentials"
	"github.com/vladislavdragonenkov/shopfront/internal/domain"
	"github.com/vladislavdragonenkov/shopfront/internal/metrics"
)

// Rotator выполняет сетевой вызов ротации refresh-токена.
type Rotator interface {
	Rotate(ctx context.Context, refreshToken string) (domain.Credentials, *domain.User, error)
}

// refreshOutcome — результат ротации, доставляемый припаркованному запросу.
type refreshOutcome struct {
	token string
	err   error
}

// Coordinator гарантирует не более одного вызова ротации на истечение токена.
// Два состояния — Idle и Rotating; проверка и установка флага выполняются
// в одной критической секции, это и есть замена мьютекса из исходной модели.
type Coordinator struct {
	mu       sync.Mutex
	rotating bool
	// Каждый ожидающий держит буферизованный канал на одну запись: лидер
	// освобождает его ровно один раз, результатом или ошибкой.
	waiters []chan refreshOutcome

	creds   *credentials.Store
	rotator Rotator
	metrics *metrics.GatewayMetrics
	logger  *log.Entry
}

// NewCoordinator создаёт координатор ротации.
func NewCoordinator(creds *credentials.Store, rotator Rotator, m *metrics.GatewayMetrics, logger *log.Entry) *Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "refresh")
	}
	return &Coordinator{
		creds:   creds,
		rotator: rotator,
		metrics: m,
		logger:  logger,
	}
}

// Refresh возвращает новый access-токен после завершения ротации. Первый
// наблюдатель 401 становится лидером и выполняет сетевой вызов; остальные
// паркуются и получают его результат.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.rotating {
		waiter := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, waiter)
		c.mu.Unlock()

		if c.metrics != nil {
			c.metrics.RecordWaiterParked()
			defer c.metrics.RecordWaiterReleased()
		}

		select {
		case out := <-waiter:
			return out.token, out.err
		case <-ctx.Done():
			return "", domain.NewFailure(domain.FailureCanceled, "", ctx.Err())
		}
	}

	current := c.creds.Credentials()
	if !current.CanRotate() {
		c.mu.Unlock()
		// Ротировать нечего — сразу сносим сессию, без сетевого вызова.
		c.creds.Clear()
		c.logger.Warn("refresh-токен отсутствует или повреждён, принудительный выход")
		return "", domain.NewFailure(domain.FailureSession, "", domain.ErrNoRefreshToken)
	}
	c.rotating = true
	c.mu.Unlock()

	rotated, user, err := c.rotator.Rotate(ctx, current.RefreshToken)

	c.mu.Lock()
	c.rotating = false
	released := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordRotation(err != nil)
	}

	if err != nil {
		// Сессия сносится до освобождения ожидающих: никто не должен
		// наблюдать аутентифицированное состояние после провала ротации.
		c.creds.Clear()
		failure := domain.NewFailure(domain.FailureSession, "", fmt.Errorf("token rotation failed: %w", err))
		for _, waiter := range released {
			waiter <- refreshOutcome{err: failure}
		}
		c.logger.WithError(err).WithField("waiters", len(released)).Warn("ротация токена провалилась")
		return "", failure
	}

	// Сохраняем новую пару целиком: старый refresh-токен сервер уже
	// инвалидировал, потерять новый — значит навсегда сломать сессию.
	c.creds.Set(rotated, user)
	for _, waiter := range released {
		waiter <- refreshOutcome{token: rotated.AccessToken}
	}
	c.logger.WithField("waiters", len(released)).Debug("токен ротирован")
	return rotated.AccessToken, nil
}
