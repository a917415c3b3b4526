package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"coffee-order/internal/models"
)

const maxDrainBytes = 64 * 1024

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("webhook transport: %v", e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// RejectionError means the endpoint answered with a non-2xx status.
type RejectionError struct {
	StatusCode int
}

func (e RejectionError) Error() string {
	return fmt.Sprintf("webhook rejected order with status %d", e.StatusCode)
}

// Client posts order payloads to a single fixed endpoint. It never retries.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a client for url. A zero timeout leaves requests
// unbounded.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) URL() string {
	return c.url
}

// Send posts the payload as JSON. The response body is discarded.
func (c *Client) Send(ctx context.Context, payload models.OrderPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TransportError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RejectionError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
