package version

import (
	"context"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// Fetcher reads the current version tag of an index family from the site.
type Fetcher interface {
	Version(ctx context.Context, family domain.IndexFamily) (int64, error)
}
