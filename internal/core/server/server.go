package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"reagent-tracker/internal/core/config"
	"reagent-tracker/internal/core/logger"
	"reagent-tracker/internal/core/metrics"

	_ "reagent-tracker/docs/swagger"
)

// RequestIDHeader is echoed on every response and in error bodies.
const RequestIDHeader = "X-Request-ID"

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig

	mu     sync.RWMutex
	checks map[string]HealthCheck
}

// New creates a new Server instance with configured middleware. HTTP metrics are
// registered on reg and served from /metrics.
func New(cfg *config.AppConfig, reg *prometheus.Registry) (*Server, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "reagent-tracker",
	})

	httpMetrics, err := metrics.NewHTTPMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	app.Use(requestid.New(requestid.Config{
		Header: RequestIDHeader,
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
		Fields: []string{"requestId", "status", "method", "url", "latency"},
	}))

	app.Use(httpMetrics.Handler())

	s := &Server{
		App:    app,
		cfg:    cfg,
		checks: make(map[string]HealthCheck),
	}

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get(metrics.MetricsPath, metrics.Handler(reg))
	app.Get("/health", s.health)

	return s, nil
}

// AddHealthCheck registers a dependency probe reported by /health.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

func (s *Server) health(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": results,
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
