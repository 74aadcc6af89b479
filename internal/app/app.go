// Package app is the composition root: it builds the source core from a
// Config and hands the services to the HTTP server, the CLI and the SDK.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/config"
	"github.com/kailas-cloud/gallerysrc/internal/db"
	dbRedis "github.com/kailas-cloud/gallerysrc/internal/db/redis"
	"github.com/kailas-cloud/gallerysrc/internal/metrics"
	galleryrepo "github.com/kailas-cloud/gallerysrc/internal/repository/gallery"
	"github.com/kailas-cloud/gallerysrc/internal/repository/lookupcache"
	nozomirepo "github.com/kailas-cloud/gallerysrc/internal/repository/nozomi"
	"github.com/kailas-cloud/gallerysrc/internal/transport/site"
	assetuc "github.com/kailas-cloud/gallerysrc/internal/usecase/asset"
	galleryuc "github.com/kailas-cloud/gallerysrc/internal/usecase/gallery"
	healthuc "github.com/kailas-cloud/gallerysrc/internal/usecase/health"
	listinguc "github.com/kailas-cloud/gallerysrc/internal/usecase/listing"
	searchuc "github.com/kailas-cloud/gallerysrc/internal/usecase/search"
	summaryuc "github.com/kailas-cloud/gallerysrc/internal/usecase/summary"
	versionuc "github.com/kailas-cloud/gallerysrc/internal/usecase/version"
)

// Options override collaborators that New would otherwise build from the config.
type Options struct {
	// HTTPClient replaces the site transport's client (custom retry or proxy transports).
	HTTPClient *http.Client
	// Store replaces the cache store built from cfg.Cache. Closing it stays with the caller.
	Store db.KVStore
	// Registerer receives the source metrics. Nil means prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// App holds the wired services.
type App struct {
	Listings  *listinguc.Service
	Search    *searchuc.Service
	Galleries *galleryuc.Service
	Assets    *assetuc.Resolver
	Health    *healthuc.Service
	Versions  *versionuc.Cache

	store db.Store
}

// New wires the services. When the cache is enabled and no store is
// injected, New connects to it and waits for readiness.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := metrics.RegisterSourceMetrics(reg); err != nil {
		return nil, fmt.Errorf("register source metrics: %w", err)
	}

	client := site.New(&site.Config{
		BaseURL:    cfg.Site.BaseURL,
		LTNURL:     cfg.Site.LTNURL,
		UserAgent:  cfg.Site.UserAgent,
		Timeout:    cfg.Site.RequestTimeout(),
		RateLimit:  cfg.Site.RateLimitRPS,
		Burst:      cfg.Site.RateLimitBurst,
		HTTPClient: opts.HTTPClient,
		Logger:     logger,
	})

	a := &App{}

	kv := opts.Store
	if kv == nil && cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Driver:   cfg.Cache.Driver,
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to lookup cache",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)
		a.store = store
		kv = store
	}

	indexRepo := nozomirepo.New(client, logger)
	galleries := galleryrepo.New(client)

	var lookup searchuc.Lookup = indexRepo
	if kv != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		lookup = lookupcache.New(indexRepo, kv, ttl, metrics.LookupCacheTotal, logger)
	}

	a.Versions = versionuc.New(indexRepo, logger).WithTTL(cfg.Source.VersionTTL())
	summaries := summaryuc.New(galleries, logger).
		WithConcurrency(cfg.Source.FetchConcurrency).
		WithHighQuality(cfg.Source.HighQualityThumbnails)

	a.Assets = assetuc.New(galleries, logger).WithTimeout(cfg.Source.ScriptTimeout())
	a.Galleries = galleryuc.New(galleries, a.Assets, logger).
		WithHighQuality(cfg.Source.HighQualityThumbnails)
	a.Listings = listinguc.New(indexRepo, summaries)
	a.Search = searchuc.New(lookup, a.Versions, summaries, a.Galleries, logger)

	// Pass a nil interface, not a typed nil, when there is nothing to ping.
	var pinger healthuc.CachePinger
	if p, ok := kv.(healthuc.CachePinger); ok {
		pinger = p
	}
	a.Health = healthuc.New(indexRepo, pinger)

	return a, nil
}

// Close releases the cache connection New opened, if any.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
