package gallerysrc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	ltnURL     string
	userAgent  string
	httpClient *http.Client
	rateLimit  float64
	rateBurst  int

	highQuality   bool
	concurrency   int
	versionTTL    time.Duration
	scriptTimeout time.Duration

	cacheDriver   string // "valkey" or "redis"; empty disables the cache
	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSite points the client at a site. ltnURL is the host serving the
// indexes, summaries and scripts.
func WithSite(baseURL, ltnURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
		c.ltnURL = ltnURL
	})
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithHTTPClient replaces the HTTP client. Retry and backoff belong here;
// the client itself never retries.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRateLimit caps outbound requests per second. Zero disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateLimit = rps
		c.rateBurst = burst
	})
}

// WithHighQualityThumbnails selects the large srcset thumbnail for summaries.
func WithHighQualityThumbnails() Option {
	return optionFunc(func(c *clientConfig) {
		c.highQuality = true
	})
}

// WithFetchConcurrency bounds parallel summary fetches for one page.
// Default: 25.
func WithFetchConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithVersionTTL sets how long an index version is trusted. Default: 10m.
func WithVersionTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.versionTTL = d
	})
}

// WithScriptTimeout bounds one image URL evaluation. Default: 5s.
func WithScriptTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.scriptTimeout = d
	})
}

// WithValkeyCache caches term lookups in a Valkey instance.
func WithValkeyCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithRedisCache caches term lookups in a Redis instance.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets the lookup cache entry lifetime. Default: 1h.
func WithCacheTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// and the remote source metrics on the given registerer. Pass nil to
// disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
