package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/mlpipe/pkg/domain"
)

// UserAgent is sent with every request.
const UserAgent = "mlpipe"

// Client implements ports.ReadinessProber and ports.Fetcher over HTTP.
// It performs exactly one request per call; there is no retry.
type Client struct {
	http *http.Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithTimeout bounds every request. Zero (the default) means no limit.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a new HTTP adapter.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe issues a GET against uri and requires a 2xx answer.
func (c *Client) Probe(ctx context.Context, uri string) error {
	resp, err := c.get(ctx, uri)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !success(resp.StatusCode) {
		return fmt.Errorf("%w: GET %s: %s", domain.ErrServiceUnreachable, uri, resp.Status)
	}
	return nil
}

// Fetch issues a GET against url and returns the body of a 2xx answer.
func (c *Client) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if !success(resp.StatusCode) {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	return c.http.Do(req)
}

func success(code int) bool {
	return code >= 200 && code < 300
}
