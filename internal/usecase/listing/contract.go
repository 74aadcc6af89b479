package listing

import (
	"context"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// RangeFetcher reads one page of ids from a ranged nozomi resource.
type RangeFetcher interface {
	FetchRange(ctx context.Context, resource string, page int) ([]domain.ContentID, bool, error)
}

// SummaryFetcher fetches listing entries for a page of ids.
type SummaryFetcher interface {
	FetchSummaries(ctx context.Context, ids []domain.ContentID) ([]domain.Summary, error)
}
