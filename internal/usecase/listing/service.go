// Package listing serves the popularity and recency listings.
package listing

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/repository/nozomi"
)

// Service reads popular and latest pages.
type Service struct {
	ranges    RangeFetcher
	summaries SummaryFetcher
}

// New creates a listing service.
func New(r RangeFetcher, s SummaryFetcher) *Service {
	return &Service{ranges: r, summaries: s}
}

// Popular returns page (1-based) of the popularity listing.
func (s *Service) Popular(ctx context.Context, page int) (domain.Listing, error) {
	return s.list(ctx, nozomi.PopularResource, page)
}

// Latest returns page (1-based) of the recency listing.
func (s *Service) Latest(ctx context.Context, page int) (domain.Listing, error) {
	return s.list(ctx, nozomi.LatestResource, page)
}

func (s *Service) list(ctx context.Context, resource string, page int) (domain.Listing, error) {
	ids, hasNext, err := s.ranges.FetchRange(ctx, resource, page)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%s page %d: %w", resource, page, err)
	}
	items, err := s.summaries.FetchSummaries(ctx, ids)
	if err != nil {
		return domain.Listing{}, err
	}
	return domain.Listing{Page: page, Items: items, HasNextPage: hasNext}, nil
}
