package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/authapi"
	"github.com/vladislavdragonenkov/shopfront/internal/credentials"
	"github.com/vladislavdragonenkov/shopfront/internal/gateway"
	"github.com/vladislavdragonenkov/shopfront/internal/metrics"
	"github.com/vladislavdragonenkov/shopfront/internal/store"
)

// Dependencies содержит собранный граф компонентов клиента: хранилище
// учётных данных, транспорт, координатор ротации, конвейер и хранилища
// корзины и заказов.
type Dependencies struct {
	Credentials *credentials.Store
	Transport   *gateway.Transport
	Coordinator *gateway.Coordinator
	Gateway     *gateway.Client
	Auth        *authapi.Client
	Cart        *store.CartStore
	Orders      *store.OrderStore
	Metrics     *metrics.GatewayMetrics
	Logger      *log.Entry
}

// NewDependencies собирает все зависимости по конфигурации.
func NewDependencies(cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	transport, err := gateway.NewTransport(gateway.TransportConfig{
		BaseURL:     cfg.APIBaseURL,
		InternalURL: cfg.APIInternalURL,
		Timeout:     cfg.Timeout,
	}, logger.WithField("component", "transport"))
	if err != nil {
		return nil, err
	}

	gatewayMetrics := metrics.NewGatewayMetrics()
	creds := credentials.NewStore()
	rotator := authapi.NewTokenRotator(transport, logger.WithField("component", "rotator"))
	coordinator := gateway.NewCoordinator(creds, rotator, gatewayMetrics, logger.WithField("component", "refresh"))
	client := gateway.New(transport, creds, coordinator, gateway.DefaultRetryConfig(), gatewayMetrics, logger.WithField("component", "gateway"))

	cart := store.NewCartStore(client, gatewayMetrics, logger.WithField("component", "cart"))
	orders := store.NewOrderStore(client, cart, gatewayMetrics, logger.WithField("component", "orders"))
	auth := authapi.New(client, creds, logger.WithField("component", "authapi"))

	return &Dependencies{
		Credentials: creds,
		Transport:   transport,
		Coordinator: coordinator,
		Gateway:     client,
		Auth:        auth,
		Cart:        cart,
		Orders:      orders,
		Metrics:     gatewayMetrics,
		Logger:      logger,
	}, nil
}

// Logout завершает сессию и сбрасывает всё сессионное состояние: учётные
// данные, корзину и оформление заказа.
func (d *Dependencies) Logout(ctx context.Context) {
	d.Auth.Logout(ctx)
	d.Cart.Reset()
	d.Orders.Reset()
}
