// Package gallery serves single-gallery operations: details, pages and URL import.
package gallery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
)

const defaultResolveConcurrency = 4

// Service handles gallery lookups by canonical URL.
type Service struct {
	repo        Repository
	assets      AssetResolver
	highQuality bool
	concurrency int
	logger      *zap.Logger
}

// New creates a gallery service. assets may be nil when page URLs are never resolved.
func New(repo Repository, assets AssetResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, assets: assets, concurrency: defaultResolveConcurrency, logger: logger}
}

// WithHighQuality selects the large thumbnail variant for imported summaries.
func (s *Service) WithHighQuality(hq bool) *Service {
	s.highQuality = hq
	return s
}

// WithResolveConcurrency bounds parallel image URL resolutions. Non-positive values are ignored.
func (s *Service) WithResolveConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// URLFor returns the canonical URL of gallery id.
func (s *Service) URLFor(id domain.ContentID) string {
	return fmt.Sprintf("%s/galleries/%d.html", strings.TrimRight(s.repo.BaseURL(), "/"), id)
}

// Details returns the metadata of the gallery at canonicalURL.
func (s *Service) Details(ctx context.Context, canonicalURL string) (domgallery.Metadata, error) {
	id, err := domgallery.IDFromURL(canonicalURL)
	if err != nil {
		return domgallery.Metadata{}, err
	}
	return s.repo.Metadata(ctx, id, canonicalURL)
}

// Pages lists the pages of the gallery at canonicalURL. When resolve is
// set each page's image URL is filled in; any failed resolution fails the call.
func (s *Service) Pages(ctx context.Context, canonicalURL string, resolve bool) ([]domgallery.PageRef, error) {
	id, err := domgallery.IDFromURL(canonicalURL)
	if err != nil {
		return nil, err
	}
	pages, err := s.repo.Pages(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resolve || len(pages) == 0 {
		return pages, nil
	}
	if s.assets == nil {
		return nil, fmt.Errorf("image url resolution: %w", domain.ErrUnsupportedOperation)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range pages {
		g.Go(func() error {
			u, err := s.assets.ResolveURL(gctx, pages[i].Hash)
			if err != nil {
				return fmt.Errorf("page %d: %w", pages[i].Index, err)
			}
			pages[i].ImageURL = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("page resolution failed", zap.Int64("gallery_id", int64(id)), zap.Error(err))
		return nil, err
	}
	return pages, nil
}

// Import maps an external gallery URL onto its canonical URL.
func (s *Service) Import(_ context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, domain.ErrInvalidArgument)
	}
	canonical, ok := domgallery.MapImportURL(u, s.repo.BaseURL())
	if !ok {
		return "", fmt.Errorf("%q: %w", rawURL, domain.ErrNoMapping)
	}
	return canonical, nil
}

// ImportSummary maps rawURL and fetches the summary of the gallery it names.
func (s *Service) ImportSummary(ctx context.Context, rawURL string) (domain.Summary, error) {
	canonical, err := s.Import(ctx, rawURL)
	if err != nil {
		return domain.Summary{}, err
	}
	id, err := domgallery.IDFromURL(canonical)
	if err != nil {
		return domain.Summary{}, err
	}
	return s.repo.Summary(ctx, id, s.highQuality)
}
