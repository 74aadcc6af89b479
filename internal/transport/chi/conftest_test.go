package chi

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
	healthuc "github.com/kailas-cloud/gallerysrc/internal/usecase/health"
)

// --- Mocks ---

type mockListings struct {
	listing domain.Listing
	err     error
	pages   []int
	kinds   []string
}

func (m *mockListings) Popular(_ context.Context, page int) (domain.Listing, error) {
	m.pages = append(m.pages, page)
	m.kinds = append(m.kinds, "popular")
	return m.listing, m.err
}

func (m *mockListings) Latest(_ context.Context, page int) (domain.Listing, error) {
	m.pages = append(m.pages, page)
	m.kinds = append(m.kinds, "latest")
	return m.listing, m.err
}

type mockSearcher struct {
	listing domain.Listing
	err     error
	query   string
	page    int
}

func (m *mockSearcher) Search(_ context.Context, query string, page int) (domain.Listing, error) {
	m.query, m.page = query, page
	return m.listing, m.err
}

type mockGalleries struct {
	meta      domgallery.Metadata
	pages     []domgallery.PageRef
	imported  string
	err       error
	urls      []string
	resolved  bool
	importRaw string
}

func (m *mockGalleries) URLFor(id domain.ContentID) string {
	return fmt.Sprintf("https://gallery.example/galleries/%d.html", id)
}

func (m *mockGalleries) Details(_ context.Context, u string) (domgallery.Metadata, error) {
	m.urls = append(m.urls, u)
	return m.meta, m.err
}

func (m *mockGalleries) Pages(_ context.Context, u string, resolve bool) ([]domgallery.PageRef, error) {
	m.urls = append(m.urls, u)
	m.resolved = resolve
	return m.pages, m.err
}

func (m *mockGalleries) Import(_ context.Context, raw string) (string, error) {
	m.importRaw = raw
	return m.imported, m.err
}

type mockAssets struct {
	url string
	err error
}

func (m *mockAssets) ResolveURL(_ context.Context, _ string) (string, error) {
	return m.url, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type fixture struct {
	listings  *mockListings
	search    *mockSearcher
	galleries *mockGalleries
	assets    *mockAssets
	health    *mockHealth
}

func newFixture() *fixture {
	return &fixture{
		listings:  &mockListings{},
		search:    &mockSearcher{},
		galleries: &mockGalleries{},
		assets:    &mockAssets{},
		health:    &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{"site": healthuc.CheckOK}}},
	}
}

func (f *fixture) server() *Server {
	return NewServer(f.listings, f.search, f.galleries, f.assets, f.health, nil)
}
