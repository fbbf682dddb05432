package rdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultMaxRetries = 5
	defaultBackoff    = 500 * time.Millisecond
)

// Client is a client for one RDB instance. Construct it once per run and
// pass it to whatever needs to issue requests; there is no package-level
// session state.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	maxRetries int
	backoff    time.Duration
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

// New creates a new Client for the given RDB instance. The token is sent as
// an "Authorization: Token <token>" header on every request; an empty token
// is rejected up front rather than discovered through a 401 later.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("rdb: baseURL is required")
	}
	if token == "" {
		return nil, &AuthError{Operation: "new client", Message: "no API token provided"}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
		maxRetries: cfg.maxRetries,
		backoff:    cfg.backoff,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// WithRetry overrides the retry budget and initial backoff delay. The delay
// doubles after every failed attempt.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(cfg *clientConfig) error {
		if maxRetries < 0 {
			return fmt.Errorf("rdb: maxRetries must be >= 0, got %d", maxRetries)
		}
		cfg.maxRetries = maxRetries
		cfg.backoff = backoff
		return nil
	}
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Get fetches an absolute HTTP(S) URL and decodes the JSON response into dst.
func (c *Client) Get(ctx context.Context, rawURL string, dst any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("get: parse url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("get: %q is not an absolute HTTP(S) URL", rawURL)
	}
	return c.getJSON(ctx, rawURL, "get "+u.Path, dst)
}

// GetEndpoint fetches a path relative to the instance's /api/v1/ prefix.
func (c *Client) GetEndpoint(ctx context.Context, endpoint string, dst any) error {
	u := fmt.Sprintf("%s/api/v1/%s", c.baseURL, strings.TrimPrefix(endpoint, "/"))
	return c.getJSON(ctx, u, "get "+endpoint, dst)
}

// getJSON issues a GET with retry and decodes the response body into dst.
// Connection failures are retried; error statuses are classified and returned
// without retry.
func (c *Client) getJSON(ctx context.Context, u, operation string, dst any) error {
	resp, err := c.send(ctx, u, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    readErrorBody(resp),
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return newAPIError(operation, resp.StatusCode, readErrorBody(resp))
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return &ParseError{Operation: operation, Err: err}
		}
	}
	return nil
}

// send performs the GET, retrying connection-level failures with exponential
// backoff. Retries never apply to responses that arrived, whatever their
// status code.
func (c *Client) send(ctx context.Context, u, operation string) (*http.Response, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WarnContext(ctx, "retrying request",
				"operation", operation, "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: create request: %w", operation, err)
		}
		req.Header.Set("Authorization", "Token "+c.token)

		c.logger.InfoContext(ctx, "API request", "operation", operation, "method", "GET", "url", u)

		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, &TransportError{
		Operation: operation,
		Attempts:  c.maxRetries + 1,
		Err:       lastErr,
	}
}

// readErrorBody extracts a short message from an error response. RDB error
// bodies carry a "detail" field; anything else falls back to raw text.
func readErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		return detail.Detail
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return msg
}
