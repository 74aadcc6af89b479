// Package version caches the remote index version tags.
package version

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/metrics"
)

// DefaultTTL is how long a fetched version is served without a refresh.
const DefaultTTL = 10 * time.Minute

type entry struct {
	value      int64
	capturedAt time.Time
}

// Cache holds one slot per index family. Each slot is swapped atomically;
// concurrent refreshes are not serialized and the last writer wins.
type Cache struct {
	fetcher   Fetcher
	ttl       time.Duration
	now       func() time.Time
	tag       atomic.Pointer[entry]
	galleries atomic.Pointer[entry]
	logger    *zap.Logger
}

// New creates a version cache with DefaultTTL.
func New(f Fetcher, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{fetcher: f, ttl: DefaultTTL, now: time.Now, logger: logger}
}

// WithTTL overrides the freshness window. Non-positive values are ignored.
func (c *Cache) WithTTL(ttl time.Duration) *Cache {
	if ttl > 0 {
		c.ttl = ttl
	}
	return c
}

// WithClock replaces the time source.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Version returns the cached version for family, refreshing it when stale.
// Fetch errors are returned unchanged and leave the slot untouched.
func (c *Cache) Version(ctx context.Context, family domain.IndexFamily) (int64, error) {
	slot, err := c.slot(family)
	if err != nil {
		return 0, err
	}

	now := c.now()
	if e := slot.Load(); e != nil && now.Sub(e.capturedAt) < c.ttl {
		return e.value, nil
	}

	v, err := c.fetcher.Version(ctx, family)
	if err != nil {
		return 0, err //nolint:wrapcheck // propagated unchanged
	}
	slot.Store(&entry{value: v, capturedAt: now})
	metrics.IndexVersionRefreshesTotal.WithLabelValues(string(family)).Inc()
	c.logger.Debug("index version refreshed", zap.String("index", string(family)), zap.Int64("version", v))
	return v, nil
}

// Pair captures both versions for one query resolution.
func (c *Cache) Pair(ctx context.Context) (domain.VersionPair, error) {
	tv, err := c.Version(ctx, domain.TagIndex)
	if err != nil {
		return domain.VersionPair{}, err
	}
	gv, err := c.Version(ctx, domain.GalleriesIndex)
	if err != nil {
		return domain.VersionPair{}, err
	}
	return domain.VersionPair{Tag: tv, Galleries: gv}, nil
}

func (c *Cache) slot(family domain.IndexFamily) (*atomic.Pointer[entry], error) {
	switch family {
	case domain.TagIndex:
		return &c.tag, nil
	case domain.GalleriesIndex:
		return &c.galleries, nil
	}
	return nil, fmt.Errorf("index family %q: %w", family, domain.ErrInvalidArgument)
}
