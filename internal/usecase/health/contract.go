package health

import (
	"context"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// CachePinger checks lookup cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SiteChecker probes the remote site by reading an index version.
type SiteChecker interface {
	Version(ctx context.Context, family domain.IndexFamily) (int64, error)
}
