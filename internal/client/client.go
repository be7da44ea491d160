package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitnesstracking/internal/analytics"
	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
)

// APIError is returned for any non 2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the analytics endpoints of the fitness service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) Analytics(ctx context.Context, userID int) (*analytics.Report, error) {
	var report analytics.Report
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/analytics/%d", userID), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Features(ctx context.Context, userID int) ([]analytics.FeatureVector, error) {
	var vectors []analytics.FeatureVector
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/ml-data/%d", userID), &vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (c *Client) Export(ctx context.Context, userID int) (*analytics.ExportResponse, error) {
	var resp analytics.ExportResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/workouts/ml-data/%d/export", userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client."+strings.ToLower(method))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			log.Debugf("close response body: %s", cErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
