package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/common"
	"github.com/Divert12/divert-ai-crew/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 2
	defaultRetryBase = 250 * time.Millisecond
	userAgent        = "divert-cli/1.0"
)

// TokenSource yields the current bearer token, "" when logged out.
type TokenSource interface {
	AccessToken() string
}

// Client talks to the backend over HTTP/JSON. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger

	retries   uint64
	retryBase time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the transport timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithTokenSource attaches the bearer token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetries sets how many times a GET is retried after ErrUnavailable,
// with exponential backoff starting at base. n = 0 disables retries.
func WithRetries(n uint64, base time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		if base > 0 {
			c.retryBase = base
		}
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logging.NewNopLogger(),

		retries:   defaultRetries,
		retryBase: defaultRetryBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource attaches the bearer token provider after construction; the
// session manager and the client depend on each other.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// do sends a request, retrying GETs that fail with ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body, dst any, fallback string) error {
	if method != http.MethodGet || c.retries == 0 {
		return c.send(ctx, method, path, body, dst, fallback)
	}

	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.send(ctx, method, path, body, dst, fallback)
		if errors.Is(err, ErrUnavailable) {
			c.logger.Debug(ctx, "retrying request", "method", method, "path", path, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// send performs one request. body, when non-nil, is JSON-encoded; a 2xx
// response is decoded into dst when dst is non-nil. fallback is the error
// detail used when the backend sends none.
func (c *Client) send(ctx context.Context, method, path string, body, dst any, fallback string) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(common.RequestIDHeader, requestID)
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerValue(token))
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(raw, fallback)}
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}
