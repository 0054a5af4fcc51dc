package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/credentials"
	"github.com/vladislavdragonenkov/shopfront/internal/domain"
	"github.com/vladislavdragonenkov/shopfront/internal/metrics"
)

// Client — конвейер перехватчиков между UI-слоем и API магазина: подставляет
// bearer-токен в исходящие вызовы, разруливает 401 через координатор ротации
// и повторяет временные отказы с экспоненциальным backoff.
type Client struct {
	transport Doer
	creds     *credentials.Store
	refresher *Coordinator
	retry     RetryConfig
	metrics   *metrics.GatewayMetrics
	logger    *log.Entry
}

// New создаёт рабочий экземпляр конвейера.
func New(transport Doer, creds *credentials.Store, refresher *Coordinator, retry RetryConfig, m *metrics.GatewayMetrics, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "gateway")
	}
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	return &Client{
		transport: transport,
		creds:     creds,
		refresher: refresher,
		retry:     retry,
		metrics:   m,
		logger:    logger,
	}
}

// NewWithoutMetrics создаёт конвейер без метрик (для тестов).
func NewWithoutMetrics(transport Doer, creds *credentials.Store, refresher *Coordinator, retry RetryConfig, logger *log.Entry) *Client {
	return New(transport, creds, refresher, retry, nil, logger)
}

// Get выполняет GET и декодирует JSON-ответ в out (если out != nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post выполняет POST с JSON-телом.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

// Patch выполняет PATCH с JSON-телом.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPatch, path, body, out)
}

// Delete выполняет DELETE; сервер может вернуть обновлённое состояние в out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response %s %s: %w", method, path, err)
	}
	return nil
}

// send ведёт запрос до терминального исхода. Дескриптор запроса неизменяем;
// счётчики попыток — явные локальные переменные, а не скрытые флаги на запросе.
func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	resp, err := c.sendInner(ctx, req)
	if c.metrics != nil {
		outcome := "success"
		if err != nil {
			if kind := domain.KindOf(err); kind != "" {
				outcome = string(kind)
			} else {
				outcome = "error"
			}
		}
		c.metrics.RecordRequest(outcome, time.Since(started))
	}
	return resp, err
}

func (c *Client) sendInner(ctx context.Context, req Request) (*Response, error) {
	// Попытки по временным отказам; повтор после ротации токена учитывается
	// отдельно и выполняется не более одного раза.
	attempt := 1
	authRetried := false

	for {
		resp, err := c.transport.Do(ctx, c.authorize(req))
		failure := classify(ctx, resp, err)
		if failure == nil {
			return resp, nil
		}

		switch failure.Kind {
		case domain.FailureAuthExpired:
			if authRetried {
				// Повторный 401 уже после ротации: сессия невосстановима.
				c.creds.Clear()
				return nil, domain.NewFailure(domain.FailureSession, "", domain.ErrSessionExpired)
			}
			authRetried = true
			if _, rerr := c.refresher.Refresh(ctx); rerr != nil {
				return nil, rerr
			}
			// Токен обновлён — единственный повтор исходного запроса.
			continue

		case domain.FailureTransient:
			if !c.retry.ShouldRetry(failure.Kind, attempt) {
				c.logger.WithError(failure).WithFields(log.Fields{
					"path":     req.Path,
					"attempts": attempt,
				}).Warn("повторы исчерпаны, отдаём отказ наверх")
				return nil, failure
			}
			delay := c.retry.Delay(attempt)
			c.logger.WithFields(log.Fields{
				"path":    req.Path,
				"attempt": attempt,
				"delay":   delay,
			}).Warn("временный отказ, повторяем")
			if c.metrics != nil {
				c.metrics.RecordRetry()
			}
			if serr := sleepBackoff(ctx, delay); serr != nil {
				return nil, domain.NewFailure(domain.FailureCanceled, "", serr)
			}
			attempt++
			continue

		default:
			return nil, failure
		}
	}
}

// authorize прикладывает bearer-токен, не трогая исходный дескриптор.
func (c *Client) authorize(req Request) Request {
	creds := c.creds.Credentials()
	if !creds.Valid() {
		return req
	}

	header := make(http.Header, len(req.Header)+1)
	for key, values := range req.Header {
		header[key] = values
	}
	header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header = header
	return req
}
