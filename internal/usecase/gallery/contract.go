package gallery

import (
	"context"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
)

// Repository reads per-gallery resources.
type Repository interface {
	Summary(ctx context.Context, id domain.ContentID, highQuality bool) (domain.Summary, error)
	Metadata(ctx context.Context, id domain.ContentID, location string) (domgallery.Metadata, error)
	Pages(ctx context.Context, id domain.ContentID) ([]domgallery.PageRef, error)
	BaseURL() string
}

// AssetResolver turns a page hash into its image URL.
type AssetResolver interface {
	ResolveURL(ctx context.Context, hash string) (string, error)
}
