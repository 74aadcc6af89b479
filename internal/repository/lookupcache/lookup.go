// Package lookupcache caches per-term gallery id lookups in a key-value store.
package lookupcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/db"
	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/nozomi"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "gallerysrc:lookup:"

// lookup is the decorated per-term lookup.
type lookup interface {
	Lookup(ctx context.Context, term string, pair domain.VersionPair) ([]domain.ContentID, error)
	AllIDs(ctx context.Context, pair domain.VersionPair) ([]domain.ContentID, error)
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedLookup serves lookups from the store and falls through to inner on
// a miss. Keys embed the index versions, so a version bump never serves
// stale ids. Store failures are logged and bypassed.
type CachedLookup struct {
	inner      lookup
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner lookup,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedLookup {
	return &CachedLookup{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Lookup returns cached ids for term or asks the inner lookup.
func (c *CachedLookup) Lookup(ctx context.Context, term string, pair domain.VersionPair) ([]domain.ContentID, error) {
	return c.cached(ctx, c.cacheKey(pair, "term:"+term), func() ([]domain.ContentID, error) {
		return c.inner.Lookup(ctx, term, pair)
	})
}

// AllIDs returns the cached "index-all" bucket or asks the inner lookup.
func (c *CachedLookup) AllIDs(ctx context.Context, pair domain.VersionPair) ([]domain.ContentID, error) {
	return c.cached(ctx, c.cacheKey(pair, "all"), func() ([]domain.ContentID, error) {
		return c.inner.AllIDs(ctx, pair)
	})
}

func (c *CachedLookup) cached(
	ctx context.Context,
	key string,
	load func() ([]domain.ContentID, error),
) ([]domain.ContentID, error) {
	if ids, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return ids, nil
	}

	c.incCache("miss")

	ids, err := load()
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}

	c.putToCache(ctx, key, ids)
	return ids, nil
}

func (c *CachedLookup) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedLookup) cacheKey(pair domain.VersionPair, what string) string {
	h := sha256.Sum256([]byte(what))
	return KeyPrefix +
		strconv.FormatInt(pair.Tag, 10) + ":" +
		strconv.FormatInt(pair.Galleries, 10) + ":" +
		hex.EncodeToString(h[:])
}

func (c *CachedLookup) getFromCache(ctx context.Context, key string) ([]domain.ContentID, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached lookup", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	ids, err := nozomi.Decode(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached lookup", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return ids, true
}

func (c *CachedLookup) putToCache(ctx context.Context, key string, ids []domain.ContentID) {
	if err := c.store.SetWithTTL(ctx, key, nozomi.Encode(ids), c.ttl); err != nil {
		c.logger.Warn("Failed to cache lookup", zap.String("key", key), zap.Error(err))
	}
}
