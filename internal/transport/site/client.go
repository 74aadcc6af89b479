// Package site is the HTTP transport to the gallery site and its static index host.
package site

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/metrics"
)

// defaultMaxBodySize caps a single response body.
const defaultMaxBodySize = 128 << 20

// Endpoint labels used for metrics and logs.
const (
	EndpointVersion  = "version"
	EndpointNozomi   = "nozomi"
	EndpointIndex    = "index"
	EndpointBlock    = "galleryblock"
	EndpointDocument = "document"
	EndpointManifest = "manifest"
	EndpointScript   = "script"
)

// Client fetches resources from the site. Every request carries the site
// Referer and the configured User-Agent and waits on a shared rate limiter.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	baseURL   string
	ltnURL    string
	userAgent string
	maxBody   int64
	logger    *zap.Logger
}

// Config holds the transport settings.
type Config struct {
	BaseURL   string
	LTNURL    string
	UserAgent string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	Burst     int

	// MaxBodySize rejects larger bodies; 0 means defaultMaxBodySize.
	MaxBodySize int64
	// HTTPClient overrides the default client (tests, custom retry transports).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New creates a site client.
func New(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	return &Client{
		http:      hc,
		limiter:   rate.NewLimiter(limit, burst),
		baseURL:   cfg.BaseURL,
		ltnURL:    cfg.LTNURL,
		userAgent: cfg.UserAgent,
		maxBody:   maxBody,
		logger:    logger,
	}
}

// BaseURL returns the site origin, without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// LTNURL returns the static index host origin, without trailing slash.
func (c *Client) LTNURL() string { return c.ltnURL }

// Response is a fetched body with the headers callers inspect.
type Response struct {
	Status       int
	Body         []byte
	ContentRange string
}

// Get fetches url and returns its body. Non-2xx statuses are TransportErrors.
func (c *Client) Get(ctx context.Context, endpoint, url string) ([]byte, error) {
	resp, err := c.do(ctx, endpoint, url, "")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// GetRange fetches the inclusive byte range [start, end] of url.
func (c *Client) GetRange(ctx context.Context, endpoint, url string, start, end int64) (Response, error) {
	return c.do(ctx, endpoint, url, "bytes="+strconv.FormatInt(start, 10)+"-"+strconv.FormatInt(end, 10))
}

func (c *Client) do(ctx context.Context, endpoint, url, byteRange string) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, &domain.TransportError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Response{}, &domain.TransportError{URL: url, Err: err}
	}
	req.Header.Set("Referer", c.baseURL+"/")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if byteRange != "" {
		req.Header.Set("Range", byteRange)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(endpoint, "error", start)
		return Response{}, &domain.TransportError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(endpoint, "error", start)
		c.logger.Debug("site request rejected",
			zap.String("endpoint", endpoint),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return Response{}, &domain.TransportError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		c.record(endpoint, "error", start)
		return Response{}, &domain.TransportError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		c.record(endpoint, "error", start)
		return Response{}, domain.NewFormatError(url, "body exceeds %d bytes", c.maxBody)
	}
	c.record(endpoint, "success", start)

	return Response{
		Status:       resp.StatusCode,
		Body:         body,
		ContentRange: resp.Header.Get("Content-Range"),
	}, nil
}

func (c *Client) record(endpoint, status string, start time.Time) {
	metrics.RemoteRequestsTotal.WithLabelValues(endpoint, status).Inc()
	metrics.RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
