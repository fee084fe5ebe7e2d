package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenSource yields the bearer token for a request. It is consulted on
// every request so a login or logout takes effect immediately.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, error)

// Token calls f.
func (f TokenFunc) Token() (string, error) { return f() }

// envelope is the wrapper every backend response uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client is a thin HTTP client for the maintenance REST API. It handles
// Bearer token authentication, envelope unwrapping, client-side rate
// limiting and retry with backoff on HTTP 429.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int

	// onUnauthorized runs when a request carrying a token gets HTTP 401.
	onUnauthorized func()
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRateLimit caps outgoing requests at perSec with a burst of the
// same size. A non-positive rate disables limiting.
func WithRateLimit(perSec float64) Option {
	return func(c *Client) {
		if perSec <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(perSec)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// WithUnauthorizedHandler registers fn to run when the backend rejects
// the bearer token. Requests sent without a token, such as a login, never
// trigger it.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithMaxRetries sets how many times a 429 response is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient creates a new API client. baseURL is the API root
// (e.g., https://manutencao.example.com/api).
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points later requests at a new API root.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// get performs a GET and decodes the envelope data into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting, envelope unwrapping and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body any,
	result any,
) error {
	op := method + " " + path
	url := c.BaseURL() + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body for %s: %w", op, err)
		}
		payload = data
	}

	token := ""
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("reading token for %s: %w", op, err)
		}
		token = tok
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: err}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request %s: %w", op, err)
		}

		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return &TransportError{Op: op, Err: readErr}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &HTTPError{Op: op, StatusCode: resp.StatusCode}

			select {
			case <-ctx.Done():
				return &TransportError{Op: op, Err: ctx.Err()}
			case <-time.After(retryAfterDuration(resp, attempt)):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return decode(op, resp.StatusCode, respBody, result, token != "")
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// decode turns a response into either result or one of the typed errors.
// authed tells whether the request carried a bearer token.
func decode(op string, status int, body []byte, result any, authed bool) error {
	var env envelope
	envErr := json.Unmarshal(body, &env)

	if status < 200 || status >= 300 {
		if !authed && envErr == nil && !env.Success && env.Message != "" {
			return &EnvelopeError{Op: op, Message: env.Message}
		}
		httpErr := &HTTPError{Op: op, StatusCode: status}
		if envErr == nil {
			httpErr.Message = env.Message
		}
		return httpErr
	}

	// No content to parse (e.g. 204).
	if status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if envErr != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding envelope: %w", envErr)}
	}

	if !env.Success {
		return &EnvelopeError{Op: op, Message: env.Message}
	}

	if result == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, result); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding data: %w", err)}
	}

	return nil
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
