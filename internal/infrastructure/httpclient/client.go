// Package httpclient is the single outbound gateway to the storefront
// backend. It attaches the current credential to every request, classifies
// failures, and hands 401 responses to an UnauthorizedHandler.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/api/metrics"
	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

const (
	// DefaultBase is the relative API base used when none is configured.
	DefaultBase    = "/api"
	defaultTimeout = 15 * time.Second

	headerRequestID = "X-Request-ID"
)

// TokenSource returns the credential to attach to the next request.
type TokenSource func() (string, bool)

// Config describes where the backend lives.
type Config struct {
	// BaseURL is the configured API base. Empty means DefaultBase.
	BaseURL string
	// Origin resolves a relative BaseURL (the shell server's own address).
	Origin  string
	Timeout time.Duration
}

// Client implements ports.APIClient.
type Client struct {
	base        string
	usesDefault bool
	http        *http.Client
	tokens      TokenSource
	log         zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized ports.UnauthorizedHandler
}

var _ ports.APIClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets where credentials are read from on every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New resolves the API base once and builds the client.
func New(cfg Config, opts ...Option) (*Client, error) {
	configured := strings.TrimSpace(cfg.BaseURL)
	if configured == "" {
		configured = DefaultBase
	}
	base, err := resolveBase(configured, cfg.Origin)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		base:        base,
		usesDefault: configured == DefaultBase,
		http:        &http.Client{Timeout: timeout},
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.log.Info().Str("api_base", c.base).Bool("default_base", c.usesDefault).Msg("api client configured")
	if c.usesDefault {
		c.log.Warn().Msg("using relative API path /api; set API_URL unless a proxy serves /api on the same origin")
	}
	return c, nil
}

func resolveBase(configured, origin string) (string, error) {
	u, err := url.Parse(configured)
	if err != nil {
		return "", fmt.Errorf("api base %q: %w", configured, err)
	}
	if !u.IsAbs() {
		o, err := url.Parse(strings.TrimSpace(origin))
		if err != nil || !o.IsAbs() {
			return "", fmt.Errorf("relative api base %q needs an absolute origin, got %q", configured, origin)
		}
		u = o.ResolveReference(u)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL is the resolved absolute API base.
func (c *Client) BaseURL() string { return c.base }

// UsesDefaultBase reports whether the base fell back to DefaultBase.
func (c *Client) UsesDefaultBase() bool { return c.usesDefault }

// OnUnauthorized registers the handler run when the backend answers 401.
func (c *Client) OnUnauthorized(h ports.UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = h
}

func (c *Client) Get(ctx context.Context, path string, opts ...ports.RequestOption) (*ports.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...ports.RequestOption) (*ports.Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...ports.RequestOption) (*ports.Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...ports.RequestOption) (*ports.Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...ports.RequestOption) (*ports.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts []ports.RequestOption) (*ports.Response, error) {
	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if opt != nil {
			opt(req)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.networkError(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkError(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		herr := &domain.HTTPError{Method: method, Path: path, Status: resp.StatusCode, Body: data}
		if resp.StatusCode == http.StatusUnauthorized {
			metrics.APIRequestsTotal.WithLabelValues(method, metrics.OutcomeUnauthorized).Inc()
			c.handleUnauthorized(ctx)
		} else {
			metrics.APIRequestsTotal.WithLabelValues(method, metrics.OutcomeHTTPError).Inc()
		}
		return nil, herr
	}

	metrics.APIRequestsTotal.WithLabelValues(method, metrics.OutcomeOK).Inc()
	return &ports.Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// newRequest is the request phase: encode the body and attach the credential
// read at call time.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+strings.TrimLeft(path, "/"), rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())

	if c.tokens != nil {
		if token, ok := c.tokens(); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) networkError(method, path string, cause error) error {
	if errors.Is(cause, context.Canceled) {
		return fmt.Errorf("%s %s: %w", method, path, cause)
	}

	metrics.APIRequestsTotal.WithLabelValues(method, metrics.OutcomeNetworkError).Inc()
	msg := fmt.Sprintf("Cannot connect to backend at %s. Please check your API configuration.", c.base)
	if c.usesDefault {
		msg = "Backend API is not configured. Please set the API_URL environment variable."
	}
	c.log.Error().Err(cause).Str("method", method).Str("path", path).Msg(msg)
	return &domain.NetworkError{Message: msg, Cause: cause}
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	c.mu.RLock()
	h := c.onUnauthorized
	c.mu.RUnlock()
	if h != nil {
		h.HandleUnauthorized(ctx)
	}
}

// Ping checks that the backend answers at all. It sends no credential and
// never triggers the unauthorized handler; gateway errors from an
// intermediate proxy count as unreachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base, nil)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.base, err)
	}
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("ping %s: status %d", c.base, resp.StatusCode)
	}
	return nil
}
