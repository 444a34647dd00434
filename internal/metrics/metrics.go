// Package metrics expone las métricas Prometheus del relay.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	sessionsCreatedTotal *prometheus.CounterVec
	exchangesTotal       *prometheus.CounterVec
)

func register(reg prometheus.Registerer) {
	once.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		sessionsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_sessions_created_total",
			Help: "Sesiones de autorización creadas por plataforma",
		}, []string{"platform"})

		exchangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_exchanges_total",
			Help: "Intercambios de token por plataforma, grant y resultado",
		}, []string{"platform", "grant_type", "outcome"})

		reg.MustRegister(httpRequestsTotal, httpRequestDuration, sessionsCreatedTotal, exchangesTotal)
	})
}

// Handler registra los collectors y retorna el handler para /metrics.
func Handler() http.Handler {
	register(prometheus.DefaultRegisterer)
	return promhttp.Handler()
}

// ObserveRequest registra una request HTTP terminada.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	pathLabel := normalizePath(path)
	httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, pathLabel).Observe(elapsed.Seconds())
}

// ObserveSessionCreated registra una sesión emitida.
func ObserveSessionCreated(platform string) {
	if sessionsCreatedTotal == nil {
		return
	}
	sessionsCreatedTotal.WithLabelValues(platform).Inc()
}

// ObserveExchange registra el resultado de un intercambio. outcome es
// "success" o el kind del error.
func ObserveExchange(platform, grantType, outcome string) {
	if exchangesTotal == nil {
		return
	}
	exchangesTotal.WithLabelValues(platform, grantType, outcome).Inc()
}
