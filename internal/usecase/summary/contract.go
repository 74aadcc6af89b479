package summary

import (
	"context"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// Source reads one gallery summary.
type Source interface {
	Summary(ctx context.Context, id domain.ContentID, highQuality bool) (domain.Summary, error)
}
