// Package search resolves free-text tag queries into pages of summaries.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
	"github.com/kailas-cloud/gallerysrc/internal/domain/query"
)

// PageSize is the number of results per search page.
const PageSize = 25

// Service runs searches.
type Service struct {
	resolver  *Resolver
	versions  Versioner
	summaries SummaryFetcher
	importer  Importer
	logger    *zap.Logger
}

// New creates a search service. importer may be nil, in which case URL
// queries are resolved as ordinary terms.
func New(l Lookup, v Versioner, s SummaryFetcher, importer Importer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:  NewResolver(l),
		versions:  v,
		summaries: s,
		importer:  importer,
		logger:    logger,
	}
}

// Search returns page (1-based) of the results for raw. Results are ordered
// by ascending id. A page past the end is an empty listing.
func (s *Service) Search(ctx context.Context, raw string, page int) (domain.Listing, error) {
	if page < 1 {
		return domain.Listing{}, fmt.Errorf("page %d: %w", page, domain.ErrInvalidArgument)
	}

	trimmed := strings.TrimSpace(raw)
	if s.importer != nil && gallery.IsImportable(trimmed) {
		return s.searchURL(ctx, trimmed, page)
	}

	pair, err := s.versions.Pair(ctx)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("index versions: %w", err)
	}

	set, err := s.resolver.Resolve(ctx, query.Parse(raw), pair)
	if err != nil {
		return domain.Listing{}, err
	}
	ids := set.Sorted()

	chunk, hasNext := Paginate(ids, page, PageSize)
	items, err := s.summaries.FetchSummaries(ctx, chunk)
	if err != nil {
		return domain.Listing{}, err
	}

	s.logger.Debug("search resolved",
		zap.String("query", raw),
		zap.Int("page", page),
		zap.Int("matches", len(ids)),
	)
	return domain.Listing{Page: page, Items: items, HasNextPage: hasNext}, nil
}

// searchURL answers a pasted gallery URL with that single gallery.
func (s *Service) searchURL(ctx context.Context, rawURL string, page int) (domain.Listing, error) {
	empty := domain.Listing{Page: page, Items: []domain.Summary{}}
	if page > 1 {
		return empty, nil
	}
	item, err := s.importer.ImportSummary(ctx, rawURL)
	if errors.Is(err, domain.ErrNoMapping) {
		return empty, nil
	}
	if err != nil {
		return domain.Listing{}, err
	}
	return domain.Listing{Page: page, Items: []domain.Summary{item}}, nil
}

// Paginate returns the size-long chunk for page (1-based) and whether a
// later chunk exists.
func Paginate(ids []domain.ContentID, page, size int) ([]domain.ContentID, bool) {
	pages := (len(ids) + size - 1) / size
	if page > pages {
		return nil, false
	}
	start := (page - 1) * size
	end := min(start+size, len(ids))
	return ids[start:end], page < pages
}
