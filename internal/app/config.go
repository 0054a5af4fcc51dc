package app

import (
	"os"
	"time"
)

// Config описывает настройки запуска клиента витрины.
type Config struct {
	// APIBaseURL — публичный адрес API магазина.
	APIBaseURL string
	// APIInternalURL — внутренний адрес; при наличии имеет приоритет.
	APIInternalURL string
	// Timeout — таймаут одиночного HTTP-вызова.
	Timeout time.Duration
	// MetricsAddr — адрес служебного HTTP-сервера (/metrics, /healthz).
	MetricsAddr string
}

// DefaultConfig возвращает базовые настройки для локальной разработки.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:  "http://localhost:8000/api",
		Timeout:     15 * time.Second,
		MetricsAddr: ":9090",
	}
}

// ConfigFromEnv накладывает переменные окружения на настройки по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SHOPFRONT_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("SHOPFRONT_API_URL_INTERNAL"); v != "" {
		cfg.APIInternalURL = v
	}
	if v := os.Getenv("SHOPFRONT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("SHOPFRONT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	return cfg
}
