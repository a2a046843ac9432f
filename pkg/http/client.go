package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientOption configures Client.
type ClientOption func(*Client)

// RequestOptions holds HTTP request parameters.
type RequestOptions struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams map[string][]string
}

// StatusError is returned for a non-2xx response. The body is read and
// discarded; callers map the status to their own failure kinds.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// Client represents an HTTP client with configurable timeout.
type Client struct {
	timeout time.Duration
	client  *http.Client
}

// NewClient creates a new HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// SendRequest sends an HTTP request and returns response.
func (c *Client) SendRequest(ctx context.Context, opts *RequestOptions) (*http.Response, error) {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// SendAndParse sends the request and decodes the JSON response into dest.
// A non-2xx status yields a *StatusError.
func (c *Client) SendAndParse(ctx context.Context, opts *RequestOptions, dest interface{}) error {
	resp, err := c.SendRequest(ctx, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Status: resp.StatusCode}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}

func (c *Client) buildRequest(ctx context.Context, opts *RequestOptions) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	c.addQueryParams(req, opts.QueryParams)
	c.addHeaders(req, opts.Headers)

	return req, nil
}

func (c *Client) addQueryParams(req *http.Request, params map[string][]string) {
	if len(params) > 0 {
		q := req.URL.Query()
		for key, values := range params {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
}

func (c *Client) addHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

// WithTimeout sets client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}
