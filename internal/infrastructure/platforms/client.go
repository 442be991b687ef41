// internal/infrastructure/platforms/client.go
package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/remitip/rates-service/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "RemiTip/1.0.0 (Exchange Rate Comparison Service)"
)

// apiClient is the shared HTTP plumbing for all platform adapters: common
// headers, per-call timing, and normalization of upstream failures into
// human-readable error categories.
type apiClient struct {
	platform string
	baseURL  string
	headers  map[string]string
	client   *http.Client
}

func newAPIClient(platform, baseURL string) *apiClient {
	return &apiClient{
		platform: platform,
		baseURL:  baseURL,
		headers:  map[string]string{},
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *apiClient) setHeader(key, value string) {
	c.headers[key] = value
}

// getJSON issues a GET and decodes the response body into out. The returned
// elapsed time covers the full round trip and is valid on error too.
func (c *apiClient) getJSON(ctx context.Context, path string, query url.Values, out any) (int64, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// postJSON issues a POST with a JSON body and decodes the response into out.
func (c *apiClient) postJSON(ctx context.Context, path string, body any, out any) (int64, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) (int64, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return elapsed, c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return elapsed, fmt.Errorf("failed to read %s response: %w", c.platform, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return elapsed, c.classifyStatusError(resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return elapsed, fmt.Errorf("failed to parse %s response: %w", c.platform, err)
		}
	}

	return elapsed, nil
}

// classifyStatusError maps upstream HTTP statuses onto the handful of
// failure categories surfaced to users.
func (c *apiClient) classifyStatusError(status int) error {
	switch {
	case status == http.StatusForbidden:
		return fmt.Errorf("%s denied access (HTTP 403)", c.platform)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s endpoint not found (HTTP 404)", c.platform)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s rate limited the request (HTTP 429)", c.platform)
	case status >= 500:
		return fmt.Errorf("%s upstream server error (HTTP %d)", c.platform, status)
	default:
		return fmt.Errorf("%s returned unexpected status (HTTP %d)", c.platform, status)
	}
}

func (c *apiClient) classifyTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%s timed out after %s", c.platform, defaultTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s is unreachable: %v", c.platform, netErr)
	}
	return err
}

// failedQuote builds the conventional failure result: zero receive amount
// and rate, total cost pinned to the send amount.
func failedQuote(platform string, req *domain.RateQuoteRequest, elapsedMs int64, err error) *domain.RateQuoteResult {
	return &domain.RateQuoteResult{
		Platform:       platform,
		SendAmount:     req.Amount,
		ReceiveAmount:  0,
		ExchangeRate:   0,
		Fees:           0,
		TotalCost:      req.Amount,
		ResponseTimeMs: elapsedMs,
		Success:        false,
		Error:          err.Error(),
	}
}
