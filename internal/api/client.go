// Package api is the HTTP client for the ByteMe backend.
//
// All calls take a context and return explicit errors. Authenticated
// calls attach "Authorization: Bearer <token>" and fail fast with
// ErrAuthRequired when no token is present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abelbrown/byteme/internal/logging"
)

// TokenSource yields the current bearer token ("" when signed out).
type TokenSource interface {
	Token() string
}

// Session is a goroutine-safe, mutable TokenSource.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession creates a Session holding token.
func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set replaces the token. An empty token signs out.
func (s *Session) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Client talks to the ByteMe backend.
type Client struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter // nil disables pacing
	tokens    TokenSource
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit paces outgoing requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
		tokens:    NewSession(""),
		userAgent: "ByteMe/" + logging.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasToken reports whether a session token is present.
func (c *Client) HasToken() bool {
	return c.tokens.Token() != ""
}

// do performs a JSON request. in may be nil; out may be nil to discard
// the body. auth selects whether a bearer token is required.
func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	return c.doWithToken(ctx, method, path, authToken(auth, c.tokens), in, out)
}

func authToken(auth bool, ts TokenSource) *string {
	if !auth {
		return nil
	}
	t := ts.Token()
	return &t
}

// doWithToken is do with an explicit token. A nil token means the call
// is anonymous; a pointer to "" means a token was required but missing.
func (c *Client) doWithToken(ctx context.Context, method, path string, token *string, in, out any) error {
	if token != nil && *token == "" {
		return ErrAuthRequired
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	logging.Debug("api request", "method", method, "path", path, "request_id", reqID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Error("API error", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   truncate(strings.TrimSpace(string(respBody)), 200),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
