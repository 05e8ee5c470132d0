package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is where the scrape endpoint is mounted. Requests to it are not counted.
const MetricsPath = "/metrics"

// HTTPMetrics holds the request collectors for the fiber app.
type HTTPMetrics struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates the HTTP collectors and registers them on reg.
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler returns the fiber middleware recording every request except scrapes.
func (m *HTTPMetrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == MetricsPath {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		// route pattern keeps label cardinality bounded (/units/:key, not /units/SN1)
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.requestCount.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}

// Lifecycle counts unit transitions by operation and outcome.
type Lifecycle struct {
	transitions *prometheus.CounterVec
}

// NewLifecycle creates the lifecycle collectors and registers them on reg.
func NewLifecycle(reg prometheus.Registerer) (*Lifecycle, error) {
	l := &Lifecycle{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unit_transitions_total",
				Help: "Unit lifecycle operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
	if err := reg.Register(l.transitions); err != nil {
		return nil, err
	}
	return l, nil
}

// ObserveTransition records one attempted operation. outcome is "success" or an error kind.
func (l *Lifecycle) ObserveTransition(operation, outcome string) {
	l.transitions.WithLabelValues(operation, outcome).Inc()
}

// Handler exposes the gathered metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
