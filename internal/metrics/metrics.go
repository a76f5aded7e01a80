// Package metrics содержит метрики Prometheus клиента и сервера разработки.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Client — метрики исходящих запросов к REST API.
type Client struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	NetworkErrors   *prometheus.CounterVec
	SessionCleared  prometheus.Counter
}

// NewClient регистрирует клиентские метрики в registry.
func NewClient(registry prometheus.Registerer) *Client {
	factory := promauto.With(registry)

	return &Client{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshops_client_requests_total",
				Help: "Total number of API requests by method and status code",
			},
			[]string{"method", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workshops_client_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		NetworkErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshops_client_network_errors_total",
				Help: "Total number of requests that got no response",
			},
			[]string{"method"},
		),
		SessionCleared: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "workshops_client_unauthorized_total",
				Help: "Total number of 401 responses that cleared the session",
			},
		),
	}
}

// ObserveRequest учитывает завершённый запрос. code == 0 означает, что ответа не было.
func (c *Client) ObserveRequest(method string, code int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	if code == 0 {
		c.NetworkErrors.WithLabelValues(method).Inc()
		return
	}
	c.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Server — метрики HTTP-сервера разработки.
type Server struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LoginThrottled  prometheus.Counter
	MailsSent       *prometheus.CounterVec
}

// NewServer регистрирует серверные метрики в registry.
func NewServer(registry prometheus.Registerer) *Server {
	factory := promauto.With(registry)

	return &Server{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshops_api_requests_total",
				Help: "Total number of handled HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workshops_api_request_duration_seconds",
				Help:    "HTTP request handling duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginThrottled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "workshops_api_login_throttled_total",
				Help: "Total number of login attempts rejected by the rate limiter",
			},
		),
		MailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshops_api_mails_total",
				Help: "Total number of outgoing mails by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest учитывает обработанный запрос.
func (s *Server) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.Requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	s.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// NewRegistry создаёт отдельный registry, удобно для тестов.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// HandlerFor возвращает обработчик /metrics для registry.
func HandlerFor(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
