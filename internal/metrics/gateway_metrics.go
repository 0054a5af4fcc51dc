package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics содержит метрики шлюза и оптимистичных сторов.
type GatewayMetrics struct {
	// Счётчики запросов по исходу классификации
	requestsTotal *prometheus.CounterVec
	retriesTotal  prometheus.Counter

	// Ротация токенов
	rotationsTotal   prometheus.Counter
	rotationFailures prometheus.Counter
	refreshWaiters   prometheus.Gauge

	// Оптимистичные мутации сторов
	mutationsCommitted  prometheus.Counter
	mutationsRolledBack prometheus.Counter

	// Гистограмма времени запроса
	requestDuration prometheus.Histogram
}

// NewGatewayMetrics создаёт новый экземпляр метрик шлюза.
func NewGatewayMetrics() *GatewayMetrics {
	return newGatewayMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newGatewayMetricsWithRegisterer(registerer prometheus.Registerer) *GatewayMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &GatewayMetrics{
		requestsTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopfront_requests_total",
			Help: "Total number of gateway requests by terminal outcome",
		}, []string{"outcome"}),
		retriesTotal: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopfront_retries_total",
			Help: "Total number of transient-failure retry attempts",
		}),
		rotationsTotal: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopfront_token_rotations_total",
			Help: "Total number of refresh token rotation calls issued",
		}),
		rotationFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopfront_token_rotation_failures_total",
			Help: "Total number of failed refresh token rotations",
		}),
		refreshWaiters: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "shopfront_refresh_waiters",
			Help: "Number of requests currently parked behind an in-flight rotation",
		}),
		mutationsCommitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopfront_mutations_committed_total",
			Help: "Total number of optimistic mutations confirmed by the server",
		}),
		mutationsRolledBack: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopfront_mutations_rolled_back_total",
			Help: "Total number of optimistic mutations rolled back to the snapshot",
		}),
		requestDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shopfront_request_duration_seconds",
			Help:    "Duration of gateway requests in seconds, retries included",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordRequest фиксирует терминальный исход запроса и его длительность.
func (m *GatewayMetrics) RecordRequest(outcome string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.requestDuration.Observe(duration.Seconds())
}

// RecordRetry увеличивает счётчик повторов по временным отказам.
func (m *GatewayMetrics) RecordRetry() {
	m.retriesTotal.Inc()
}

// RecordRotation фиксирует выполненный вызов ротации токена.
func (m *GatewayMetrics) RecordRotation(failed bool) {
	m.rotationsTotal.Inc()
	if failed {
		m.rotationFailures.Inc()
	}
}

// RecordWaiterParked увеличивает количество запросов, ожидающих ротацию.
func (m *GatewayMetrics) RecordWaiterParked() {
	m.refreshWaiters.Inc()
}

// RecordWaiterReleased уменьшает количество ожидающих запросов.
func (m *GatewayMetrics) RecordWaiterReleased() {
	m.refreshWaiters.Dec()
}

// RecordMutationCommitted увеличивает счётчик подтверждённых мутаций.
func (m *GatewayMetrics) RecordMutationCommitted() {
	m.mutationsCommitted.Inc()
}

// RecordMutationRolledBack увеличивает счётчик откатов.
func (m *GatewayMetrics) RecordMutationRolledBack() {
	m.mutationsRolledBack.Inc()
}
