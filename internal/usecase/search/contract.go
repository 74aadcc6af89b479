package search

import (
	"context"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// Lookup resolves one term against a fixed pair of index versions.
type Lookup interface {
	Lookup(ctx context.Context, term string, pair domain.VersionPair) ([]domain.ContentID, error)
	AllIDs(ctx context.Context, pair domain.VersionPair) ([]domain.ContentID, error)
}

// Versioner captures the current index versions.
type Versioner interface {
	Pair(ctx context.Context) (domain.VersionPair, error)
}

// SummaryFetcher fetches listing entries for a page of ids.
type SummaryFetcher interface {
	FetchSummaries(ctx context.Context, ids []domain.ContentID) ([]domain.Summary, error)
}

// Importer maps an external gallery URL onto a single summary.
type Importer interface {
	ImportSummary(ctx context.Context, rawURL string) (domain.Summary, error)
}
