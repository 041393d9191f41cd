// Package service provides the JSON-over-HTTP client shared by the remote
// annotation services. Each client is rate limited and discovers, at
// startup, the service version recorded in provenance.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/renci-ner/annotation"
)

// UnknownVersion is recorded when a service does not report its version.
const UnknownVersion = "NA"

const maxErrorDetail = 4096

// Client issues JSON requests to one remote service.
type Client struct {
	name    string
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
	logger  *slog.Logger

	mu      sync.RWMutex
	version string
	pinned  bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMetrics records request outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the parent logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for the service identified by name. A non-empty
// cfg.Version pins the provenance version and disables discovery.
func New(name string, cfg *Config, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.TimeoutDuration(),
		logger:  slog.Default(),
		version: UnknownVersion,
	}

	if cfg.Version != "" {
		c.version = cfg.Version
		c.pinned = true
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	c.logger = c.logger.With("service", name)

	return c
}

// Name returns the service name used in provenance and errors.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the service root URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Version returns the pinned or discovered service version.
func (c *Client) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Provenance describes annotations produced through this client.
func (c *Client) Provenance() annotation.Provenance {
	return annotation.Provenance{
		Name:    c.name,
		URL:     c.baseURL,
		Version: c.Version(),
	}
}

// Metrics returns the collectors the client reports to, possibly nil.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// Get sends a GET request to path with query and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON to path and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// DiscoverVersion reads info.version from the service's OpenAPI document.
// Failures are logged and yield UnknownVersion.
func (c *Client) DiscoverVersion(ctx context.Context) string {
	var doc struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
	}

	if err := c.Get(ctx, "/openapi.json", nil, &doc); err != nil {
		c.logger.WarnContext(ctx, "version discovery failed", "error", err)
		return UnknownVersion
	}
	if doc.Info.Version == "" {
		return UnknownVersion
	}
	return doc.Info.Version
}

// Resolve discovers and stores the service version unless it is pinned.
func (c *Client) Resolve(ctx context.Context) string {
	if c.pinned {
		return c.Version()
	}

	v := c.DiscoverVersion(ctx)

	c.mu.Lock()
	c.version = v
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "service version resolved", "version", v, "url", c.baseURL)
	return v
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return c.fail(0, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return c.fail(0, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(0, "rate limit", err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(c.name, 0, time.Since(start))
		return c.fail(0, method+" "+path, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(c.name, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetail))
		return &annotation.ServiceError{
			Service:    c.name,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(resp.StatusCode, "decode response", err)
	}
	return nil
}

func (c *Client) fail(status int, detail string, err error) error {
	return &annotation.ServiceError{
		Service:    c.name,
		StatusCode: status,
		Detail:     detail,
		Err:        fmt.Errorf("%s: %w", c.baseURL, err),
	}
}
