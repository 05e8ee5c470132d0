package httpclient

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reagent-tracker/internal/core/logger"
)

// RequestIDHeader correlates client logs with the server's access log.
const RequestIDHeader = "X-Request-ID"

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Named("httpclient").With(
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
	)

	log.Debug("HTTP Request Started")

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// HeaderRoundTripper sets fixed headers and a fresh request id on every request.
type HeaderRoundTripper struct {
	Proxied http.RoundTripper
	Headers http.Header
}

// RoundTrip clones req, since a RoundTripper must not modify the caller's request.
func (hrt *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	for k, vs := range hrt.Headers {
		out.Header[k] = append([]string(nil), vs...)
	}
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return hrt.Proxied.RoundTrip(out)
}

// Option configures the client built by NewClient.
type Option func(http.Header)

// WithHeader adds a header sent with every request. Empty values are skipped.
func WithHeader(key, value string) Option {
	return func(h http.Header) {
		if value != "" {
			h.Set(key, value)
		}
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	headers := make(http.Header)
	for _, opt := range opts {
		opt(headers)
	}
	return &http.Client{
		Transport: &HeaderRoundTripper{
			Proxied: &LoggingRoundTripper{Proxied: http.DefaultTransport},
			Headers: headers,
		},
		Timeout: timeout,
	}
}
