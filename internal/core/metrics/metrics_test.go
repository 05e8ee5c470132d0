package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/units/:key", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})
	app.Get(MetricsPath, Handler(reg))

	_, err = app.Test(httptest.NewRequest("GET", "/units/SN1", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/units/SN2", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/error", nil))
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/units/:key", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/error", "400")))
	assert.NotZero(t, testutil.CollectAndCount(m.requestDuration))

	resp, err := app.Test(httptest.NewRequest("GET", MetricsPath, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "http_requests_total")

	// the scrape itself is not counted
	assert.Equal(t, float64(0), testutil.ToFloat64(m.requestCount.WithLabelValues("GET", MetricsPath, "200")))
}

func TestHTTPMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	_, err = NewHTTPMetrics(reg)
	assert.Error(t, err)
}

func TestLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	l, err := NewLifecycle(reg)
	require.NoError(t, err)

	l.ObserveTransition("checkout", "success")
	l.ObserveTransition("checkout", "success")
	l.ObserveTransition("checkout", "invalid_transition")

	assert.Equal(t, float64(2), testutil.ToFloat64(l.transitions.WithLabelValues("checkout", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(l.transitions.WithLabelValues("checkout", "invalid_transition")))
}
