package lookupcache

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/db"
	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/nozomi"
)

var pair = domain.VersionPair{Tag: 11, Galleries: 22}

func TestLookup_CacheMiss(t *testing.T) {
	inner := &mockLookup{ids: []domain.ContentID{3, 1, 2}}
	cl, ms := newTestCachedLookup(t, inner)

	// GET → ErrKeyNotFound (cache miss)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	var setKey string
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		setKey, setTTL = key, ttl
		return nil
	}

	got, err := cl.Lookup(context.Background(), "maid", pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []domain.ContentID{3, 1, 2}) {
		t.Fatalf("unexpected ids: %v", got)
	}
	if !strings.HasPrefix(setKey, KeyPrefix+"11:22:") {
		t.Errorf("cache key should embed both versions, got %q", setKey)
	}
	if setTTL != time.Hour {
		t.Errorf("ttl = %v", setTTL)
	}
}

func TestLookup_CacheHit(t *testing.T) {
	inner := &mockLookup{ids: []domain.ContentID{1}}
	cl, ms := newTestCachedLookup(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nozomi.Encode([]domain.ContentID{7, 8}), nil
	}

	got, err := cl.Lookup(context.Background(), "maid", pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []domain.ContentID{7, 8}) {
		t.Fatalf("expected cached ids, got %v", got)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on hit", inner.calls)
	}
}

func TestLookup_EmptyResultIsCached(t *testing.T) {
	inner := &mockLookup{}
	store := &memKVStore{data: map[string][]byte{}}
	cl := New(inner, store, time.Minute, nil, zap.NewNop())

	for range 2 {
		got, err := cl.Lookup(context.Background(), "absent", pair)
		if err != nil || len(got) != 0 {
			t.Fatalf("got %v, %v", got, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("empty result should be served from cache, inner calls = %d", inner.calls)
	}
}

func TestLookup_VersionChangeMisses(t *testing.T) {
	inner := &mockLookup{ids: []domain.ContentID{1}}
	store := &memKVStore{data: map[string][]byte{}}
	cl := New(inner, store, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	_, _ = cl.Lookup(ctx, "maid", pair)
	_, _ = cl.Lookup(ctx, "maid", domain.VersionPair{Tag: 11, Galleries: 23})
	if inner.calls != 2 {
		t.Fatalf("new galleries version must bypass old entry, inner calls = %d", inner.calls)
	}
}

func TestLookup_StoreErrorsBypassed(t *testing.T) {
	inner := &mockLookup{ids: []domain.ContentID{5}}
	cl, ms := newTestCachedLookup(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	got, err := cl.Lookup(context.Background(), "maid", pair)
	if err != nil {
		t.Fatalf("store failures must not surface: %v", err)
	}
	if !slices.Equal(got, []domain.ContentID{5}) {
		t.Fatalf("got %v", got)
	}
}

func TestLookup_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockLookup{ids: []domain.ContentID{5}}
	cl, ms := newTestCachedLookup(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	got, err := cl.Lookup(context.Background(), "maid", pair)
	if err != nil || !slices.Equal(got, []domain.ContentID{5}) || inner.calls != 1 {
		t.Fatalf("got %v, %v, calls=%d", got, err, inner.calls)
	}
}

func TestLookup_InnerError(t *testing.T) {
	inner := &mockLookup{err: &domain.TransportError{URL: "x", Status: 500}}
	cl, _ := newTestCachedLookup(t, inner)

	_, err := cl.Lookup(context.Background(), "maid", pair)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestAllIDs_SeparateKey(t *testing.T) {
	inner := &mockLookup{ids: []domain.ContentID{1, 2}}
	store := &memKVStore{data: map[string][]byte{}}
	cl := New(inner, store, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	_, _ = cl.AllIDs(ctx, pair)
	_, _ = cl.AllIDs(ctx, pair)
	_, _ = cl.Lookup(ctx, "all", pair)

	if inner.allCalls != 1 || inner.calls != 1 {
		t.Fatalf("allCalls=%d calls=%d", inner.allCalls, inner.calls)
	}
	if len(store.data) != 2 {
		t.Errorf("expected two cache entries, got %d", len(store.data))
	}
}

func TestLookup_Metrics(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_lookup_cache_total"}, []string{"result"})
	inner := &mockLookup{ids: []domain.ContentID{1}}
	cl := New(inner, &memKVStore{data: map[string][]byte{}}, time.Minute, counter, zap.NewNop())

	_, _ = cl.Lookup(context.Background(), "maid", pair)
	_, _ = cl.Lookup(context.Background(), "maid", pair)

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v", got)
	}
}
