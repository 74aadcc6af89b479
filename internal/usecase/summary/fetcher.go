// Package summary fetches listing entries for a page of gallery ids.
package summary

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// DefaultConcurrency bounds in-flight summary fetches per batch.
const DefaultConcurrency = 25

// Fetcher fans out summary fetches for a batch of ids.
type Fetcher struct {
	source      Source
	concurrency int
	highQuality bool
	logger      *zap.Logger
}

// New creates a summary fetcher with DefaultConcurrency and low quality thumbnails.
func New(source Source, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{source: source, concurrency: DefaultConcurrency, logger: logger}
}

// WithConcurrency sets the fan-out bound. Non-positive values are ignored.
func (f *Fetcher) WithConcurrency(n int) *Fetcher {
	if n > 0 {
		f.concurrency = n
	}
	return f
}

// WithHighQuality selects the large thumbnail variant.
func (f *Fetcher) WithHighQuality(hq bool) *Fetcher {
	f.highQuality = hq
	return f
}

// FetchSummaries returns one summary per id, in input order. The first
// failure cancels the remaining fetches and is returned; no partial batch
// is produced.
func (f *Fetcher) FetchSummaries(ctx context.Context, ids []domain.ContentID) ([]domain.Summary, error) {
	if len(ids) == 0 {
		return []domain.Summary{}, nil
	}

	out := make([]domain.Summary, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			s, err := f.source.Summary(gctx, id, f.highQuality)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		f.logger.Warn("summary batch failed",
			zap.Int("batch_size", len(ids)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetch summaries: %w", err)
	}
	return out, nil
}
