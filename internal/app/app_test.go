package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/gallerysrc/internal/config"
	"github.com/kailas-cloud/gallerysrc/internal/db"
	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/nozomi"
	healthuc "github.com/kailas-cloud/gallerysrc/internal/usecase/health"
)

func seq(from, n int) []domain.ContentID {
	ids := make([]domain.ContentID, n)
	for i := range ids {
		ids[i] = domain.ContentID(from + i)
	}
	return ids
}

// newSite serves a tiny catalogue with static-host Range semantics.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	resources := map[string][]byte{
		"/tagindex/version":               []byte("11"),
		"/galleriesindex/version":         []byte("22"),
		"/popular-all.nozomi":             nozomi.Encode(seq(1, 30)),
		"/n/tag/female:maid-all.nozomi":   nozomi.Encode([]domain.ContentID{9, 7, 5, 3, 1}),
		"/n/tag/male:tsundere-all.nozomi": nozomi.Encode([]domain.ContentID{9}),
	}
	for _, id := range seq(1, 30) {
		resources[fmt.Sprintf("/galleryblock/%d.html", id)] = []byte(fmt.Sprintf(
			`<div><h1><a href="/doujinshi/g-%d.html">Gallery %d</a></h1><img data-src="//tn.example/%d.jpg"></div>`, id, id, id))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := resources[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, r.URL.Path, time.Time{}, bytes.NewReader(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(siteURL string) config.Config {
	cfg := config.Default()
	cfg.Site.BaseURL = "https://hitomi.la"
	cfg.Site.LTNURL = siteURL
	return cfg
}

func TestApp_SearchEndToEnd(t *testing.T) {
	srv := newSite(t)
	cfg := testConfig(srv.URL)
	a, err := New(context.Background(), &cfg, nil, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	got, err := a.Search.Search(context.Background(), "female:maid -male:tsundere", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var ids []domain.ContentID
	for _, s := range got.Items {
		ids = append(ids, s.ID)
	}
	if !slices.Equal(ids, []domain.ContentID{1, 3, 5, 7}) || got.HasNextPage {
		t.Fatalf("ids = %v, hasNext = %v", ids, got.HasNextPage)
	}
	if got.Items[0].Title != "Gallery 1" || got.Items[0].ThumbnailURL != "https://tn.example/1.jpg" {
		t.Errorf("summary = %+v", got.Items[0])
	}
}

func TestApp_PopularEndToEnd(t *testing.T) {
	srv := newSite(t)
	cfg := testConfig(srv.URL)
	a, err := New(context.Background(), &cfg, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}

	first, err := a.Listings.Popular(context.Background(), 1)
	if err != nil {
		t.Fatalf("Popular(1): %v", err)
	}
	if len(first.Items) != 25 || !first.HasNextPage || first.Items[24].ID != 25 {
		t.Fatalf("page 1: %d items, hasNext %v", len(first.Items), first.HasNextPage)
	}

	second, err := a.Listings.Popular(context.Background(), 2)
	if err != nil {
		t.Fatalf("Popular(2): %v", err)
	}
	if len(second.Items) != 5 || second.HasNextPage {
		t.Fatalf("page 2: %d items, hasNext %v", len(second.Items), second.HasNextPage)
	}
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte) error {
	return m.SetWithTTL(ctx, key, value, 0)
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestApp_LookupCacheWired(t *testing.T) {
	srv := newSite(t)
	cfg := testConfig(srv.URL)
	store := &memStore{data: map[string][]byte{}}
	a, err := New(context.Background(), &cfg, nil, Options{Store: store})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Search.Search(context.Background(), "female:maid", 1); err != nil {
		t.Fatal(err)
	}
	if len(store.data) != 1 {
		t.Fatalf("cached entries = %d, want 1", len(store.data))
	}
	for k := range store.data {
		if !strings.HasPrefix(k, "gallerysrc:lookup:") {
			t.Errorf("key = %q", k)
		}
	}

	// The health report has no cache entry: the in-memory store cannot be pinged.
	if r := a.Health.Check(context.Background()); r.Status != healthuc.Healthy {
		t.Errorf("health = %+v", r)
	}
}

func TestApp_Import(t *testing.T) {
	srv := newSite(t)
	cfg := testConfig(srv.URL)
	a, err := New(context.Background(), &cfg, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}

	got, err := a.Search.Search(context.Background(), "https://hitomi.la/reader/7.html", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || got.Items[0].ID != 7 {
		t.Fatalf("items = %+v", got.Items)
	}
}

func TestApp_SourceMetricsOnRegisterer(t *testing.T) {
	srv := newSite(t)
	cfg := testConfig(srv.URL)
	reg := prometheus.NewRegistry()

	a, err := New(context.Background(), &cfg, nil, Options{Registerer: reg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Listings.Popular(context.Background(), 1); err != nil {
		t.Fatalf("Popular: %v", err)
	}
	n, err := testutil.GatherAndCount(reg, "gallerysrc_remote_requests_total")
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Error("remote request metrics missing from the injected registry")
	}

	// a second app on the same registry reuses the collectors
	if _, err := New(context.Background(), &cfg, nil, Options{Registerer: reg}); err != nil {
		t.Fatalf("second New on the same registry: %v", err)
	}
}
