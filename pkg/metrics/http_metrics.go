package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the HTTP collectors for one service
type HTTPMetrics struct {
	ServiceName string

	RequestCounter            *prometheus.CounterVec
	RequestDurationHistogram  *prometheus.HistogramVec
	StatusOkCounter           *prometheus.CounterVec
	StatusClientErrorCounter  *prometheus.CounterVec
	StatusServerErrorCounter  *prometheus.CounterVec
	StatusCodeCategoryCounter *prometheus.CounterVec
}

// NewHTTPMetrics creates the HTTP collectors for a service and registers them
func NewHTTPMetrics(serviceName string, reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		ServiceName: serviceName,
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		RequestDurationHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		StatusOkCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_2xx_total",
				Help: "Total number of 2xx (success) responses",
			},
			[]string{"service"},
		),
		StatusClientErrorCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_4xx_total",
				Help: "Total number of 4xx (client error) responses",
			},
			[]string{"service"},
		),
		StatusServerErrorCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_5xx_total",
				Help: "Total number of 5xx (server error) responses",
			},
			[]string{"service"},
		),
		StatusCodeCategoryCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category", "method", "path"},
		),
	}

	var err error
	if m.RequestCounter, err = register(reg, m.RequestCounter); err != nil {
		return nil, err
	}
	if m.RequestDurationHistogram, err = register(reg, m.RequestDurationHistogram); err != nil {
		return nil, err
	}
	if m.StatusOkCounter, err = register(reg, m.StatusOkCounter); err != nil {
		return nil, err
	}
	if m.StatusClientErrorCounter, err = register(reg, m.StatusClientErrorCounter); err != nil {
		return nil, err
	}
	if m.StatusServerErrorCounter, err = register(reg, m.StatusServerErrorCounter); err != nil {
		return nil, err
	}
	if m.StatusCodeCategoryCounter, err = register(reg, m.StatusCodeCategoryCounter); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the collector already registered under the same
// descriptor, if any, so that several instances share one series.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

// incrementStatusCounter increments the appropriate status counter based on the HTTP status code
func (m *HTTPMetrics) incrementStatusCounter(status int, method, path string) {
	category := ""

	switch {
	case status >= 200 && status < 300:
		m.StatusOkCounter.WithLabelValues(m.ServiceName).Inc()
		category = "2xx"
	case status >= 400 && status < 500:
		m.StatusClientErrorCounter.WithLabelValues(m.ServiceName).Inc()
		category = "4xx"
	case status >= 500 && status < 600:
		m.StatusServerErrorCounter.WithLabelValues(m.ServiceName).Inc()
		category = "5xx"
	}

	if category != "" {
		m.StatusCodeCategoryCounter.WithLabelValues(m.ServiceName, category, method, path).Inc()
	}
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			method := c.Request().Method
			// Route template keeps label cardinality bounded
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.RequestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			m.incrementStatusCounter(status, method, path)
			m.RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, statusStr).
				Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// Handler returns an HTTP handler exposing the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
