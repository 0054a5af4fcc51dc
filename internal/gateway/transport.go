package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Request — неизменяемый дескриптор исходящего вызова. Счётчики повторов
// в дескрипторе не хранятся: их ведёт конвейер явными переменными.
type Request struct {
	Method string
	Path   string
	// Body сериализуется в JSON; nil — запрос без тела.
	Body   any
	Header http.Header
}

// Response — сырой ответ транспорта.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Doer выполняет ровно один HTTP-вызов; о повторах и авторизации не знает.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// TransportConfig описывает настройки HTTP-транспорта.
type TransportConfig struct {
	// BaseURL — публичный адрес API.
	BaseURL string
	// InternalURL — внутренний адрес для серверного процесса; при наличии
	// имеет приоритет над публичным.
	InternalURL string
	Timeout     time.Duration
}

// Transport выполняет одиночные HTTP-вызовы к API магазина.
type Transport struct {
	baseURL string
	client  *http.Client
	logger  *log.Entry
}

// NewTransport создаёт транспорт с cookie jar для сессионной куки.
func NewTransport(cfg TransportConfig, logger *log.Entry) (*Transport, error) {
	if logger == nil {
		logger = log.New().WithField("component", "transport")
	}

	base := cfg.BaseURL
	if cfg.InternalURL != "" {
		base = cfg.InternalURL
	}
	if base == "" {
		return nil, errors.New("api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &Transport{
		baseURL: strings.TrimSuffix(base, "/"),
		client:  &http.Client{Timeout: timeout, Jar: jar},
		logger:  logger,
	}, nil
}

// Do выполняет один вызов и вычитывает тело ответа целиком.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: data, Header: resp.Header}, nil
}

var _ Doer = (*Transport)(nil)
