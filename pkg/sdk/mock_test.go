package gallerysrc

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
	healthuc "github.com/kailas-cloud/gallerysrc/internal/usecase/health"
)

// --- listingUseCase mock ---

type mockListingUC struct {
	popularFn func(ctx context.Context, page int) (domain.Listing, error)
	latestFn  func(ctx context.Context, page int) (domain.Listing, error)
}

func (m *mockListingUC) Popular(ctx context.Context, page int) (domain.Listing, error) {
	return m.popularFn(ctx, page)
}

func (m *mockListingUC) Latest(ctx context.Context, page int) (domain.Listing, error) {
	return m.latestFn(ctx, page)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	fn func(ctx context.Context, query string, page int) (domain.Listing, error)
}

func (m *mockSearchUC) Search(ctx context.Context, query string, page int) (domain.Listing, error) {
	return m.fn(ctx, query, page)
}

// --- galleryUseCase mock ---

type mockGalleryUC struct {
	detailsFn func(ctx context.Context, canonicalURL string) (domgallery.Metadata, error)
	pagesFn   func(ctx context.Context, canonicalURL string, resolve bool) ([]domgallery.PageRef, error)
	importFn  func(ctx context.Context, rawURL string) (string, error)
}

func (m *mockGalleryUC) URLFor(id domain.ContentID) string {
	return fmt.Sprintf("https://gallery.example/galleries/%d.html", id)
}

func (m *mockGalleryUC) Details(ctx context.Context, canonicalURL string) (domgallery.Metadata, error) {
	return m.detailsFn(ctx, canonicalURL)
}

func (m *mockGalleryUC) Pages(ctx context.Context, canonicalURL string, resolve bool) ([]domgallery.PageRef, error) {
	return m.pagesFn(ctx, canonicalURL, resolve)
}

func (m *mockGalleryUC) Import(ctx context.Context, rawURL string) (string, error) {
	return m.importFn(ctx, rawURL)
}

// --- assetUseCase mock ---

type mockAssetUC struct {
	fn func(ctx context.Context, hash string) (string, error)
}

func (m *mockAssetUC) ResolveURL(ctx context.Context, hash string) (string, error) {
	return m.fn(ctx, hash)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
