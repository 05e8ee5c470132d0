package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"reagent-tracker/internal/features/units/domain"
)

// APIError is a non-2xx answer from the tracker API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
	Key        string `json:"key"`
	Status     string `json:"status"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d): %s", e.Code, e.StatusCode, e.Message)
	if e.Key != "" {
		fmt.Fprintf(&b, " [key=%s", e.Key)
		if e.Status != "" {
			fmt.Fprintf(&b, " status=%s", e.Status)
		}
		b.WriteString("]")
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " request_id=%s", e.RequestID)
	}
	return b.String()
}

// ListOptions selects the units returned by List.
type ListOptions struct {
	View  string
	Sort  string
	Order string
	// Filters maps field names (key, place, lotNumber...) to exact values.
	Filters map[string]string
}

type listResponse struct {
	Count int           `json:"count"`
	Units []domain.Unit `json:"units"`
}

// Client talks to the tracker HTTP API. The http.Client carries identity headers.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Intake registers the unit encoded in code.
func (c *Client) Intake(ctx context.Context, code string) (*domain.Unit, error) {
	var u domain.Unit
	if err := c.do(ctx, http.MethodPost, "/units/intake", map[string]string{"code": code}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Checkout dispatches the unit encoded in code to place.
func (c *Client) Checkout(ctx context.Context, code, place string) (*domain.Unit, error) {
	var u domain.Unit
	body := map[string]string{"code": code, "place": place}
	if err := c.do(ctx, http.MethodPost, "/units/checkout", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Submit marks the unit encoded in code as submitted.
func (c *Client) Submit(ctx context.Context, code string) (*domain.Unit, error) {
	var u domain.Unit
	if err := c.do(ctx, http.MethodPost, "/units/submit", map[string]string{"code": code}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns the units matching opts.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]domain.Unit, error) {
	q := url.Values{}
	for k, v := range opts.Filters {
		q.Set(k, v)
	}
	if opts.View != "" {
		q.Set("view", opts.View)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}

	path := "/units"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Units, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "HTTP_ERROR"
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
