package gallerysrc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/gallerysrc/internal/app"
	"github.com/kailas-cloud/gallerysrc/internal/config"
	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
)

// Internal interfaces for test doubles.
type listingUseCase interface {
	Popular(ctx context.Context, page int) (domain.Listing, error)
	Latest(ctx context.Context, page int) (domain.Listing, error)
}

type searchUseCase interface {
	Search(ctx context.Context, query string, page int) (domain.Listing, error)
}

type galleryUseCase interface {
	URLFor(id domain.ContentID) string
	Details(ctx context.Context, canonicalURL string) (domgallery.Metadata, error)
	Pages(ctx context.Context, canonicalURL string, resolve bool) ([]domgallery.PageRef, error)
	Import(ctx context.Context, rawURL string) (string, error)
}

type assetUseCase interface {
	ResolveURL(ctx context.Context, hash string) (string, error)
}

// Client is the gallerysrc SDK entry point. It is safe for concurrent use.
type Client struct {
	app        *app.App
	listingSvc listingUseCase
	searchSvc  searchUseCase
	gallerySvc galleryUseCase
	assetSvc   assetUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client. When a cache option is given, the provided context
// bounds the initial readiness check of the cache.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	cfg, err := buildConfig(cc)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	// Without WithPrometheus the source metrics go to a private registry
	// so the SDK never touches the process-wide one.
	reg := cc.metricsReg
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	a, err := app.New(ctx, &cfg, nil, app.Options{HTTPClient: cc.httpClient, Registerer: reg})
	if err != nil {
		return nil, fmt.Errorf("gallerysrc: %w", err)
	}

	return &Client{
		app:        a,
		listingSvc: a.Listings,
		searchSvc:  a.Search,
		gallerySvc: a.Galleries,
		assetSvc:   a.Assets,
		healthSvc:  a.Health,
		obs:        obs,
	}, nil
}

// buildConfig maps options onto the service configuration.
func buildConfig(cc *clientConfig) (config.Config, error) {
	cfg := config.Default()
	if cc.baseURL != "" {
		cfg.Site.BaseURL = cc.baseURL
	}
	if cc.ltnURL != "" {
		cfg.Site.LTNURL = cc.ltnURL
	}
	if cc.userAgent != "" {
		cfg.Site.UserAgent = cc.userAgent
	}
	cfg.Site.RateLimitRPS = cc.rateLimit
	if cc.rateBurst > 0 {
		cfg.Site.RateLimitBurst = cc.rateBurst
	}

	cfg.Source.HighQualityThumbnails = cc.highQuality
	cfg.Source.FetchConcurrency = cc.concurrency
	cfg.Source.VersionTTLSec = seconds(cc.versionTTL)
	cfg.Source.ScriptTimeoutSec = seconds(cc.scriptTimeout)

	if cc.cacheDriver != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.Driver = cc.cacheDriver
		cfg.Cache.Addrs = cc.cacheAddrs
		cfg.Cache.Password = cc.cachePassword
		cfg.Cache.TTLSec = seconds(cc.cacheTTL)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("gallerysrc: %w", err)
	}
	return cfg, nil
}

// seconds rounds d up to whole seconds; zero keeps the default.
func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.app != nil {
		c.app.Close()
	}
}

// Popular returns a page of the popularity listing. Pages start at 1.
func (c *Client) Popular(ctx context.Context, page int) (res Listing, err error) {
	start := time.Now()
	defer func() { c.obs.observe("listing.popular", start, err) }()

	l, err := c.listingSvc.Popular(ctx, page)
	if err != nil {
		return Listing{}, fmt.Errorf("popular: %w", err)
	}
	return fromListing(l), nil
}

// Latest returns a page of the newest galleries. Pages start at 1.
func (c *Client) Latest(ctx context.Context, page int) (res Listing, err error) {
	start := time.Now()
	defer func() { c.obs.observe("listing.latest", start, err) }()

	l, err := c.listingSvc.Latest(ctx, page)
	if err != nil {
		return Listing{}, fmt.Errorf("latest: %w", err)
	}
	return fromListing(l), nil
}

// Search resolves a tag query. Terms are intersected and a leading "-"
// excludes a term. A gallery URL in place of a query yields that gallery.
func (c *Client) Search(ctx context.Context, query string, page int) (res Listing, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	l, err := c.searchSvc.Search(ctx, query, page)
	if err != nil {
		return Listing{}, fmt.Errorf("search: %w", err)
	}
	return fromListing(l), nil
}

// URLFor returns the canonical gallery URL for id.
func (c *Client) URLFor(id int32) string {
	return c.gallerySvc.URLFor(domain.ContentID(id))
}

// Details returns the metadata of the gallery at canonicalURL.
func (c *Client) Details(ctx context.Context, canonicalURL string) (g Gallery, err error) {
	start := time.Now()
	defer func() { c.obs.observe("gallery.details", start, err) }()

	m, err := c.gallerySvc.Details(ctx, canonicalURL)
	if err != nil {
		return Gallery{}, fmt.Errorf("details: %w", err)
	}
	return fromMetadata(&m), nil
}

// Pages returns the ordered pages of a gallery, resolving each image URL
// when resolve is set.
func (c *Client) Pages(ctx context.Context, canonicalURL string, resolve bool) (pages []Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("gallery.pages", start, err) }()

	refs, err := c.gallerySvc.Pages(ctx, canonicalURL, resolve)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	return fromPages(refs), nil
}

// ResolveImage returns the image URL of a page hash.
func (c *Client) ResolveImage(ctx context.Context, hash string) (u string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("image.resolve", start, err) }()

	u, err = c.assetSvc.ResolveURL(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("resolve image: %w", err)
	}
	return u, nil
}

// Import maps an external gallery link onto its canonical URL.
// Unrecognised links return ErrNoMapping.
func (c *Client) Import(ctx context.Context, rawURL string) (u string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import", start, err) }()

	u, err = c.gallerySvc.Import(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("import: %w", err)
	}
	return u, nil
}

var errLegacy = fmt.Errorf("gallerysrc: single-response parsing: %w", ErrUnsupportedOperation)

// ParsePopular is a legacy entry point. Listings need several requests;
// use Popular.
func (c *Client) ParsePopular(*http.Response) (Listing, error) { return Listing{}, errLegacy }

// ParseLatest is a legacy entry point. Use Latest.
func (c *Client) ParseLatest(*http.Response) (Listing, error) { return Listing{}, errLegacy }

// ParseSearch is a legacy entry point. Use Search.
func (c *Client) ParseSearch(*http.Response) (Listing, error) { return Listing{}, errLegacy }

