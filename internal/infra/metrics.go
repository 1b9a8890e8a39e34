package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько времени заняла обработка запроса
	RequestDuration *prometheus.HistogramVec

	// Traffic: попытки логина по итогу (success / invalid_credentials / store_unavailable)
	LoginAttempts *prometheus.CounterVec

	// Errors: отказы проверки предъявленных токенов
	TokenRejections prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_request_duration_seconds",
			Help:    "Histogram of request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"route", "status"}),

		LoginAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "crm_login_attempts_total",
			Help: "Total number of login attempts by outcome.",
		}, []string{"outcome"}), // outcome: success, invalid_credentials, store_unavailable

		TokenRejections: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "crm_token_rejections_total",
			Help: "Total number of rejected bearer tokens.",
		}),
	}
}
