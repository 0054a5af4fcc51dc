package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopfront/internal/gateway"
	healthcheck "github.com/vladislavdragonenkov/shopfront/internal/health"
	"github.com/vladislavdragonenkov/shopfront/internal/version"
)

// Run собирает граф зависимостей, поднимает служебный HTTP-сервер
// (/metrics, /healthz, /livez) и блокируется до сигнала остановки.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return err
	}

	healthHandler := healthcheck.NewHandler(version.String())
	healthHandler.RegisterChecker("api", healthcheck.NewSimpleChecker("api", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		// Достаточно ответа любого статуса: проверяется сетевая достижимость.
		_, err := deps.Transport.Do(pingCtx, gateway.Request{Method: http.MethodGet, Path: "/healthz"})
		return err
	}))
	healthHandler.RegisterChecker("session", healthcheck.NewSessionChecker(deps.Credentials.Authenticated))

	srv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	// Тёплый старт: корзина подтягивается заранее, отказ не фатален.
	if err := deps.Cart.Fetch(ctx); err != nil {
		logger.WithError(err).Debug("начальная загрузка корзины не удалась")
	}

	<-ctx.Done()
	logger.Info("получен сигнал остановки")
	shutdownHTTP(srv, logger)
	return ctx.Err()
}

// startMetricsServer запускает служебный HTTP-сервер.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("служебный сервер завершился с ошибкой")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("остановка служебного сервера с ошибкой")
	}
}
